package timeline

// Entry 是全局时间轴上的一个单词时间戳。
// 字段名与数值类型是与渲染端的序列化契约：
// {start, end, text, index}，重对齐后追加 sentIndex。
type Entry struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Index int     `json:"index"`
	// SentIndex 指向段落序列的下标，仅由重对齐填充，此前缺省
	SentIndex *int `json:"sentIndex,omitempty"`
}

// WordRef 分组后的单词引用，index 指向全局时间戳流
type WordRef struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SegmentWords 一个段落位置对应的单词列表；未匹配到词的段落为空列表而非缺项
type SegmentWords struct {
	Words []WordRef `json:"words"`
}
