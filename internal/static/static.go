package static

import _ "embed"

// SkillMd contains the embedded API guide for automation clients.
//
//go:embed skill.md
var SkillMd string
