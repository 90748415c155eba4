package tts

import (
	"regexp"
	"strings"
)

// Role 表示段落的朗读角色，决定 TTS 使用哪个音色
type Role string

const (
	RoleNarration Role = "narration"
	RoleMale      Role = "male"
	RoleFemale    Role = "female"
	RoleBoy       Role = "boy"
	RoleGirl      Role = "girl"
)

// Roles 全部合法角色，用于校验
var Roles = []Role{RoleNarration, RoleMale, RoleFemale, RoleBoy, RoleGirl}

// 简写 → 角色（标记行 [简写] 解析用，不区分大小写）
// 支持：N/独白/独、M/男、F/女、B/童男、G/童女，以及英文全称
var shorthandToRole = map[string]Role{
	"n":         RoleNarration,
	"narration": RoleNarration,
	"独白":        RoleNarration,
	"独":         RoleNarration,
	"m":         RoleMale,
	"male":      RoleMale,
	"男":         RoleMale,
	"f":         RoleFemale,
	"female":    RoleFemale,
	"女":         RoleFemale,
	"b":         RoleBoy,
	"boy":       RoleBoy,
	"童男":        RoleBoy,
	"g":         RoleGirl,
	"girl":      RoleGirl,
	"童女":        RoleGirl,
}

var roleTagRe = regexp.MustCompile(`^\[(.+)\]$`)

// 段首 [M]:、[男]: 等角色前缀，需与词汇标注的 [] 区分开
var rolePrefixRe = regexp.MustCompile(`(?i)^\s*\[(n|m|f|b|g|narration|male|female|boy|girl|独白|独|男|女|童男|童女)\]\s*:?\s*`)

// ParseRoleTag 解析单独一行的角色标记。
// 约定：整行仅 [xxx] 形式，方括号内为角色标识或简写，不区分大小写。
// 无法识别时返回 ("", false)。
func ParseRoleTag(line string) (Role, bool) {
	s := strings.TrimSpace(line)
	m := roleTagRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(m[1]))
	if key == "" {
		return "", false
	}
	role, ok := shorthandToRole[key]
	return role, ok
}

// StripRolePrefix 剥离段首的角色前缀（如 [M]: 或 [男]:），返回剩余文本与角色。
// 没有前缀时原样返回，role 为 ("", false)。
func StripRolePrefix(text string) (string, Role, bool) {
	s := strings.TrimSpace(text)
	loc := rolePrefixRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return text, "", false
	}
	rest := strings.TrimSpace(s[loc[1]:])
	key := strings.ToLower(s[loc[2]:loc[3]])
	role, ok := shorthandToRole[key]
	return rest, role, ok
}

// NormalizeRole 将 MD 或解析得到的角色文本规范为 Role，无效则返回 narration
func NormalizeRole(s string) Role {
	r := strings.ToLower(strings.TrimSpace(s))
	if r == "" {
		return RoleNarration
	}
	for _, known := range Roles {
		if Role(r) == known {
			return known
		}
	}
	if role, ok := shorthandToRole[r]; ok {
		return role
	}
	return RoleNarration
}
