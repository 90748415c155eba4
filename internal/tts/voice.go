package tts

// VoiceProfile 表示一个 Edge TTS 音色的完整配置信息
type VoiceProfile struct {
	// 必需字段
	VoiceID string // 音色 ID，如 "en-US-JennyNeural"

	// 音色属性
	Locale string // 地区，如 "en-US"
	Gender string // 性别，如 "male"、"female"

	// 描述信息
	Name        string // 音色名称（简短），如 "jenny"
	Description string // 详细描述
}
