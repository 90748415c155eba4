package tts

import "strings"

// 预定义音色库
// 这些是 Edge TTS 常用的 en-US 神经语音配置

var (
	// 成熟男声（偏中老年），用作 male
	VoiceChristopher = VoiceProfile{
		VoiceID:     "en-US-ChristopherNeural",
		Locale:      "en-US",
		Gender:      "male",
		Name:        "christopher",
		Description: "成熟男声",
	}

	// 成熟女声，用作 female
	VoiceJenny = VoiceProfile{
		VoiceID:     "en-US-JennyNeural",
		Locale:      "en-US",
		Gender:      "female",
		Name:        "jenny",
		Description: "成熟女声",
	}

	// 偏青年/少年感男声，用作 boy
	VoiceGuy = VoiceProfile{
		VoiceID:     "en-US-GuyNeural",
		Locale:      "en-US",
		Gender:      "male",
		Name:        "guy",
		Description: "青年男声",
	}

	// 儿童女声，用作 girl
	VoiceAna = VoiceProfile{
		VoiceID:     "en-US-AnaNeural",
		Locale:      "en-US",
		Gender:      "female",
		Name:        "ana",
		Description: "儿童女声",
	}

	// 可以继续添加更多音色...
)

// VoiceRegistry 音色注册表，用于通过名称快速查找音色
var VoiceRegistry = map[string]VoiceProfile{
	"christopher": VoiceChristopher,
	"jenny":       VoiceJenny,
	"guy":         VoiceGuy,
	"ana":         VoiceAna,
}

// GetVoice 根据名称获取音色配置
func GetVoice(name string) (VoiceProfile, bool) {
	voice, ok := VoiceRegistry[name]
	return voice, ok
}

// ResolveVoiceID 把配置里的音色写法解析为 Edge voice ID：
// 注册表里的名称（如 "jenny"，不区分大小写）取其 VoiceID，
// 其余视为完整的 voice ID 原样返回
func ResolveVoiceID(s string) string {
	if voice, ok := GetVoice(strings.ToLower(strings.TrimSpace(s))); ok {
		return voice.VoiceID
	}
	return s
}

// RoleVoices 角色 → Edge TTS 音色映射。
// narration 不在表内写死，由 VoiceForRole 按运行日期单双数切换 male/female。
type RoleVoices struct {
	voices map[Role]string
}

// DefaultRoleVoices 返回默认的角色音色映射
func DefaultRoleVoices() *RoleVoices {
	return &RoleVoices{voices: map[Role]string{
		RoleMale:   VoiceChristopher.VoiceID,
		RoleFemale: VoiceJenny.VoiceID,
		RoleBoy:    VoiceGuy.VoiceID,
		RoleGirl:   VoiceAna.VoiceID,
	}}
}

// Set 覆盖某个角色的音色（来自配置文件）
func (r *RoleVoices) Set(role Role, voiceID string) {
	if voiceID != "" {
		r.voices[role] = voiceID
	}
}

// VoiceForRole 根据角色返回 Edge TTS voice ID。
// 独白(narration)按 day 单双数切换男/女声；未知或空角色按独白处理。
// day 由调用方显式传入（通常取运行日期的日），避免组件内部读时钟。
func (r *RoleVoices) VoiceForRole(role Role, day int) string {
	role = NormalizeRole(string(role))
	if role == RoleNarration {
		// 独白：单数日男声，双数日女声
		if day%2 == 1 {
			return r.voices[RoleMale]
		}
		return r.voices[RoleFemale]
	}
	return r.voices[role]
}
