// Package docs registers the Swagger 2.0 document for the agent API, served
// at /swagger/. Keep it in step with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/agents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists agents owned by the authenticated account, default agent first",
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "List agents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AgentsListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates an agent and its first version (v1) in one transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Create an agent",
                "parameters": [
                    {"description": "Agent creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAgentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AgentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Get agent",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AgentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Updates name, description, default flag and avatar. Omitted fields are unchanged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Update agent identity",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true},
                    {"description": "Identity update", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateAgentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AgentResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agents/{id}/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Updates identity fields and creates a new current version in one transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["agents"],
                "summary": "Save agent",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true},
                    {"description": "Full agent state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SaveAgentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaveAgentResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agents/{id}/versions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists versions of the agent, newest first",
                "produces": ["application/json"],
                "tags": ["versions"],
                "summary": "List versions",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.VersionsListResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a new version from the full behavior configuration. When base_version_id is set and no longer current, returns 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["versions"],
                "summary": "Create version",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true},
                    {"description": "Version configuration", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateVersionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.VersionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agents/{id}/versions/{versionId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["versions"],
                "summary": "Get version",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Version ID", "name": "versionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.VersionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/agents/{id}/versions/{versionId}/activate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["versions"],
                "summary": "Activate version",
                "parameters": [
                    {"type": "string", "description": "Agent ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Version ID", "name": "versionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AgentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ToolConfig": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "enabled": {"type": "boolean"}
            }
        },
        "domain.ConfiguredMCP": {
            "type": "object",
            "properties": {
                "config": {"type": "object", "additionalProperties": {}},
                "enabledTools": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "qualifiedName": {"type": "string"}
            }
        },
        "domain.CustomMCP": {
            "type": "object",
            "properties": {
                "config": {"type": "object", "additionalProperties": {}},
                "customType": {"type": "string"},
                "enabledTools": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "domain.Restrictions": {
            "type": "object",
            "properties": {
                "name_editable": {"type": "boolean"},
                "system_prompt_editable": {"type": "boolean"},
                "tools_editable": {"type": "boolean"}
            }
        },
        "dto.AgentResponse": {
            "type": "object",
            "properties": {
                "account_id": {"type": "string"},
                "agent_id": {"type": "string"},
                "agentpress_tools": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.ToolConfig"}},
                "avatar": {"type": "string"},
                "avatar_color": {"type": "string"},
                "configured_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.ConfiguredMCP"}},
                "created_at": {"type": "string"},
                "current_version": {"$ref": "#/definitions/dto.VersionResponse"},
                "current_version_id": {"type": "string"},
                "custom_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.CustomMCP"}},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "is_protected": {"type": "boolean"},
                "name": {"type": "string"},
                "restrictions": {"$ref": "#/definitions/domain.Restrictions"},
                "system_prompt": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.AgentsListResponse": {
            "type": "object",
            "properties": {
                "agents": {"type": "array", "items": {"$ref": "#/definitions/dto.AgentResponse"}},
                "total": {"type": "integer"}
            }
        },
        "dto.CreateAgentRequest": {
            "type": "object",
            "properties": {
                "agentpress_tools": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.ToolConfig"}},
                "avatar": {"type": "string"},
                "avatar_color": {"type": "string"},
                "configured_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.ConfiguredMCP"}},
                "custom_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.CustomMCP"}},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "is_protected": {"type": "boolean"},
                "name": {"type": "string"},
                "restrictions": {"$ref": "#/definitions/domain.Restrictions"},
                "system_prompt": {"type": "string"}
            }
        },
        "dto.CreateVersionRequest": {
            "type": "object",
            "properties": {
                "agentpress_tools": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.ToolConfig"}},
                "base_version_id": {"type": "string"},
                "configured_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.ConfiguredMCP"}},
                "custom_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.CustomMCP"}},
                "description": {"type": "string"},
                "system_prompt": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.SaveAgentRequest": {
            "type": "object",
            "properties": {
                "agentpress_tools": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.ToolConfig"}},
                "avatar": {"type": "string"},
                "avatar_color": {"type": "string"},
                "base_version_id": {"type": "string"},
                "change_description": {"type": "string"},
                "configured_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.ConfiguredMCP"}},
                "custom_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.CustomMCP"}},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "name": {"type": "string"},
                "system_prompt": {"type": "string"}
            }
        },
        "dto.SaveAgentResponse": {
            "type": "object",
            "properties": {
                "agent": {"$ref": "#/definitions/dto.AgentResponse"},
                "version": {"$ref": "#/definitions/dto.VersionResponse"}
            }
        },
        "dto.UpdateAgentRequest": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "avatar_color": {"type": "string"},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "name": {"type": "string"}
            }
        },
        "dto.VersionResponse": {
            "type": "object",
            "properties": {
                "agent_id": {"type": "string"},
                "agentpress_tools": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.ToolConfig"}},
                "change_description": {"type": "string"},
                "configured_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.ConfiguredMCP"}},
                "created_at": {"type": "string"},
                "custom_mcps": {"type": "array", "items": {"$ref": "#/definitions/domain.CustomMCP"}},
                "system_prompt": {"type": "string"},
                "version_id": {"type": "string"},
                "version_name": {"type": "string"},
                "version_number": {"type": "integer"}
            }
        },
        "dto.VersionsListResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "versions": {"type": "array", "items": {"$ref": "#/definitions/dto.VersionResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "agentdesk API",
	Description:      "Agent configuration and version history API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
