package browse

// ThumbKind 缩略图槽位的呈现类别.
type ThumbKind int

const (
	// ThumbNone 无可用预览（含未知状态的兜底）
	ThumbNone ThumbKind = iota
	ThumbPending
	ThumbQueued
	ThumbGenerating
	ThumbReady
	ThumbFailed
)

// ThumbState 缩略图槽位的呈现状态.
type ThumbState struct {
	Kind       ThumbKind
	Label      string
	URL        string
	Err        string
	InProgress bool
}

// PresentThumbnail 把资产行的缩略图字段映射为呈现状态.
// 对五个已知状态做穷举处理；任何未知状态走显式的 default 分支，
// 呈现为中性的 ThumbNone，而不是报错或崩溃.
// done 状态要求 URL 非空，否则同样呈现为 ThumbNone.
func PresentThumbnail(status, url, errMsg string) ThumbState {
	switch status {
	case ThumbStatusPending:
		return ThumbState{Kind: ThumbPending, Label: "Pending scan", InProgress: true}
	case ThumbStatusQueued:
		return ThumbState{Kind: ThumbQueued, Label: "Render queued", InProgress: true}
	case ThumbStatusGenerating:
		return ThumbState{Kind: ThumbGenerating, Label: "Generating preview", InProgress: true}
	case ThumbStatusDone:
		if url == "" {
			return ThumbState{Kind: ThumbNone, Label: "No preview"}
		}

		return ThumbState{Kind: ThumbReady, URL: url}
	case ThumbStatusError:
		if errMsg == "" {
			errMsg = "unknown"
		}

		return ThumbState{Kind: ThumbFailed, Label: "Preview failed", Err: errMsg}
	default:
		return ThumbState{Kind: ThumbNone, Label: "No preview"}
	}
}
