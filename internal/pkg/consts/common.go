package consts

// 自动审核策略常量，不对外配置
const (
	ReportHideThreshold = 5
	AutoHiddenReason    = "Multiple reports - auto-moderated"
)

const (
	CommentPreviewLength = 50
	ActiveUserWindowDays = 7
)
