package code

var (
	// Success 成功
	Success        = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate  = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate  = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete  = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessSignIn  = NewSuss(5, lang{en: "Signed in", zh_cn: "登录成功"})
	SuccessSignOut = NewSuss(6, lang{en: "Signed out", zh_cn: "已退出登录"})
	SuccessUpload  = NewSuss(7, lang{en: "Uploaded successfully", zh_cn: "上传成功"})

	// 通用错误
	Failed                  = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal     = NewError(500, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorNotFoundAPI        = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams      = NewError(405, lang{en: "Invalid parameters", zh_cn: "参数验证失败"})
	ErrorTooManyRequests    = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorRequestTimeout     = NewError(408, lang{en: "Request timeout", zh_cn: "请求超时"})
	ErrorInvalidStorageType = NewError(410, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})

	// 会话
	ErrorInvalidCredentials   = NewError(1001, lang{en: "Invalid credentials", zh_cn: "登录凭据无效"})
	ErrorNotSignedIn          = NewError(1002, lang{en: "Not signed in", zh_cn: "尚未登录"})
	ErrorNotUserAuthToken     = NewError(1003, lang{en: "Auth token is missing", zh_cn: "缺少授权令牌"})
	ErrorInvalidUserAuthToken = NewError(1004, lang{en: "Auth token is invalid or expired", zh_cn: "授权令牌无效或已过期"})
	ErrorTokenGenerate        = NewError(1005, lang{en: "Failed to issue auth token", zh_cn: "生成授权令牌失败"})
	ErrorSessionPersist       = NewError(1006, lang{en: "Failed to persist session", zh_cn: "会话保存失败"})
	ErrorSessionRestore       = NewError(1007, lang{en: "Failed to restore session", zh_cn: "会话恢复失败"})

	// 笔记
	ErrorNoteEmpty          = NewError(2001, lang{en: "Note title and content cannot both be empty", zh_cn: "笔记标题和内容不能同时为空"})
	ErrorNoteNotFound       = NewError(2002, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteReadOnly       = NewError(2003, lang{en: "Shared notes are read-only", zh_cn: "共享笔记为只读"})
	ErrorSharedNoteNotFound = NewError(2004, lang{en: "Shared note not found", zh_cn: "共享笔记不存在"})

	// 媒体
	ErrorMediaKindInvalid = NewError(3001, lang{en: "Media kind must be image or video", zh_cn: "媒体类型必须为 image 或 video"})
	ErrorMediaExtInvalid  = NewError(3002, lang{en: "File type is not allowed for this media kind", zh_cn: "该媒体类型不允许此文件格式"})
	ErrorMediaTooLarge    = NewError(3003, lang{en: "File is too large", zh_cn: "文件过大"})
	ErrorMediaUpload      = NewError(3004, lang{en: "Media upload failed", zh_cn: "媒体上传失败"})
	ErrorStorageDisabled  = NewError(3005, lang{en: "Media storage is not enabled", zh_cn: "媒体存储未启用"})
)
