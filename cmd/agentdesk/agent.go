package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/agentdesk/internal/client"
	"github.com/mtlprog/agentdesk/internal/config"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/editor"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/logger"
)

func agentCommand() *cli.Command {
	agentArg := func(c *cli.Context) (string, error) {
		id := c.Args().First()
		if id == "" {
			return "", cli.Exit("agent id is required", 2)
		}
		return id, nil
	}

	return &cli.Command{
		Name:  "agent",
		Usage: "Inspect and edit agents through the API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultClientConfigPath(),
				Usage: "Client config file",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Agent API base URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Bearer token (overrides config)",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadClient(c.String("config"))
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if c.IsSet("log-level") {
				level = c.String("log-level")
			}
			logger.SetupConsole(logger.ParseLevel(level))
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List agents of the account",
				Action: func(c *cli.Context) error {
					api, err := newClient(c)
					if err != nil {
						return err
					}
					agents, err := api.ListAgents(c.Context)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tVERSION\tDEFAULT\tPROTECTED")
					for _, a := range agents {
						fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", a.ID, a.Name, versionLabel(a), a.IsDefault, a.Protected)
					}
					return w.Flush()
				},
			},
			{
				Name:      "create",
				Usage:     "Create an agent",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "prompt", Usage: "System prompt"},
					&cli.StringSliceFlag{Name: "tool", Usage: "Enable a built-in tool (repeatable)"},
					&cli.BoolFlag{Name: "default"},
				},
				Action: func(c *cli.Context) error {
					api, err := newClient(c)
					if err != nil {
						return err
					}
					tools := domain.ToolMap{}
					for _, t := range c.StringSlice("tool") {
						tools[t] = domain.ToolConfig{Enabled: true}
					}
					agent, err := api.CreateAgent(c.Context, dto.CreateAgentRequest{
						Name:         c.String("name"),
						Description:  c.String("description"),
						IsDefault:    c.Bool("default"),
						SystemPrompt: c.String("prompt"),
						Tools:        tools,
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, agent.ID)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print the agent's configuration, or a previous version of it",
				ArgsUsage: "<agent-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "version", Usage: "Version id to show instead of the current one"},
				},
				Action: func(c *cli.Context) error {
					id, err := agentArg(c)
					if err != nil {
						return err
					}
					s, err := newSession(c)
					if err != nil {
						return err
					}
					if err := s.Load(c.Context, id, c.String("version")); err != nil {
						return err
					}
					return printForm(c.App.Writer, s)
				},
			},
			{
				Name:      "versions",
				Usage:     "List the agent's versions, newest first",
				ArgsUsage: "<agent-id>",
				Action: func(c *cli.Context) error {
					id, err := agentArg(c)
					if err != nil {
						return err
					}
					s, err := newSession(c)
					if err != nil {
						return err
					}
					if err := s.Load(c.Context, id, ""); err != nil {
						return err
					}
					versions, err := s.History(c.Context)
					if err != nil {
						return err
					}
					agent := s.Agent()
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "\tID\tNAME\tCREATED\tCHANGE")
					for _, v := range versions {
						marker := ""
						if agent.IsCurrentVersion(v.ID) {
							marker = "*"
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, v.ID, v.Name, v.CreatedAt.Format("2006-01-02 15:04"), v.ChangeDescription)
					}
					return w.Flush()
				},
			},
			{
				Name:      "activate",
				Usage:     "Make a version the agent's current version",
				ArgsUsage: "<agent-id> <version-id>",
				Action: func(c *cli.Context) error {
					id, err := agentArg(c)
					if err != nil {
						return err
					}
					versionID := c.Args().Get(1)
					if versionID == "" {
						return cli.Exit("version id is required", 2)
					}
					s, err := newSession(c)
					if err != nil {
						return err
					}
					if err := s.Load(c.Context, id, ""); err != nil {
						return err
					}
					return s.Activate(c.Context, versionID)
				},
			},
			{
				Name:      "edit",
				Usage:     "Change fields of the agent and save them as a new version",
				ArgsUsage: "<agent-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "prompt", Usage: "System prompt"},
					&cli.StringFlag{Name: "prompt-file", Usage: "Read the system prompt from a file"},
					&cli.StringSliceFlag{Name: "enable-tool"},
					&cli.StringSliceFlag{Name: "disable-tool"},
					&cli.BoolFlag{Name: "default"},
					&cli.StringFlag{Name: "avatar"},
					&cli.StringFlag{Name: "avatar-color"},
				},
				Action: runEdit,
			},
			{
				Name:      "set-prompt",
				Usage:     "Replace the system prompt and save it immediately",
				ArgsUsage: "<agent-id> <prompt|->",
				Action: func(c *cli.Context) error {
					id, err := agentArg(c)
					if err != nil {
						return err
					}
					prompt, err := promptArg(c.Args().Get(1), os.Stdin)
					if err != nil {
						return err
					}
					s, err := newSession(c)
					if err != nil {
						return err
					}
					if err := s.Load(c.Context, id, ""); err != nil {
						return err
					}
					return s.SaveSystemPrompt(c.Context, prompt)
				},
			},
			{
				Name:      "toggle-tool",
				Usage:     "Enable or disable a built-in tool and save immediately",
				ArgsUsage: "<agent-id> <tool>",
				Action: func(c *cli.Context) error {
					id, err := agentArg(c)
					if err != nil {
						return err
					}
					tool := c.Args().Get(1)
					if tool == "" {
						return cli.Exit("tool name is required", 2)
					}
					s, err := newSession(c)
					if err != nil {
						return err
					}
					if err := s.Load(c.Context, id, ""); err != nil {
						return err
					}
					return s.ToggleToolAndSave(c.Context, tool)
				},
			},
		},
	}
}

func runEdit(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("agent id is required", 2)
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if err := s.Load(c.Context, id, ""); err != nil {
		return err
	}

	var edits []error
	if c.IsSet("name") {
		edits = append(edits, s.SetName(c.String("name")))
	}
	if c.IsSet("description") {
		edits = append(edits, s.SetDescription(c.String("description")))
	}
	if c.IsSet("prompt-file") {
		data, err := os.ReadFile(c.String("prompt-file"))
		if err != nil {
			return fmt.Errorf("read prompt file: %w", err)
		}
		edits = append(edits, s.SetSystemPrompt(string(data)))
	} else if c.IsSet("prompt") {
		edits = append(edits, s.SetSystemPrompt(c.String("prompt")))
	}
	if c.IsSet("enable-tool") || c.IsSet("disable-tool") {
		tools := s.Draft().Tools.Clone()
		if tools == nil {
			tools = domain.ToolMap{}
		}
		for _, t := range c.StringSlice("enable-tool") {
			cfg := tools[t]
			cfg.Enabled = true
			tools[t] = cfg
		}
		for _, t := range c.StringSlice("disable-tool") {
			cfg := tools[t]
			cfg.Enabled = false
			tools[t] = cfg
		}
		edits = append(edits, s.SetTools(tools))
	}
	if c.IsSet("default") {
		edits = append(edits, s.SetDefault(c.Bool("default")))
	}
	if c.IsSet("avatar") || c.IsSet("avatar-color") {
		draft := s.Draft()
		avatar, color := draft.Avatar, draft.AvatarColor
		if c.IsSet("avatar") {
			avatar = c.String("avatar")
		}
		if c.IsSet("avatar-color") {
			color = c.String("avatar-color")
		}
		edits = append(edits, s.SetAvatar(avatar, color))
	}
	for _, err := range edits {
		if err != nil {
			return err
		}
	}

	if changes := s.Changes(); len(changes) > 0 {
		log := logger.Get("cli")
		log.Debug().Strs("fields", fieldNames(changes)).Msg("saving changes")
	}
	return s.Save(c.Context)
}

func newClient(c *cli.Context) (*client.Client, error) {
	cfg, err := config.LoadClient(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("api-url") {
		cfg.APIURL = strings.TrimRight(c.String("api-url"), "/")
	}
	if c.IsSet("token") {
		cfg.Token = c.String("token")
	}
	if cfg.Token == "" {
		return nil, cli.Exit("no API token: set token in the config file, AGENTDESK_TOKEN, or --token", 2)
	}
	return client.New(client.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	})
}

func newSession(c *cli.Context) (*editor.Session, error) {
	api, err := newClient(c)
	if err != nil {
		return nil, err
	}
	return editor.NewSession(api, editor.WithNotifier(editor.NewLogNotifier(logger.Get("editor")))), nil
}

// promptArg returns arg, or the whole of r when arg is "-".
func promptArg(arg string, r io.Reader) (string, error) {
	switch arg {
	case "":
		return "", cli.Exit("prompt is required (use - to read stdin)", 2)
	case "-":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read prompt from stdin: %w", err)
		}
		return string(data), nil
	default:
		return arg, nil
	}
}

func versionLabel(a *domain.Agent) string {
	if a.CurrentVersion != nil {
		return a.CurrentVersion.Name
	}
	if a.CurrentVersionID != nil {
		return *a.CurrentVersionID
	}
	return "-"
}

func fieldNames(changes editor.Changes) []string {
	out := make([]string, len(changes))
	for i, f := range changes {
		out[i] = string(f)
	}
	return out
}

type formView struct {
	AgentID        string                 `json:"agent_id"`
	Version        string                 `json:"version"`
	Editable       bool                   `json:"editable"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	IsDefault      bool                   `json:"is_default"`
	Avatar         string                 `json:"avatar,omitempty"`
	AvatarColor    string                 `json:"avatar_color,omitempty"`
	SystemPrompt   string                 `json:"system_prompt"`
	Tools          domain.ToolMap         `json:"agentpress_tools"`
	ConfiguredMCPs []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs     []domain.CustomMCP     `json:"custom_mcps"`
}

func printForm(w io.Writer, s *editor.Session) error {
	form := s.Display()
	agent := s.Agent()
	version := versionLabel(agent)
	if v := s.Store().ViewedVersion(); v != nil {
		version = v.Name
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(formView{
		AgentID:        agent.ID,
		Version:        version,
		Editable:       s.Editable(),
		Name:           form.Name,
		Description:    form.Description,
		IsDefault:      form.IsDefault,
		Avatar:         form.Avatar,
		AvatarColor:    form.AvatarColor,
		SystemPrompt:   form.SystemPrompt,
		Tools:          form.Tools,
		ConfiguredMCPs: form.ConfiguredMCPs,
		CustomMCPs:     form.CustomMCPs,
	})
}
