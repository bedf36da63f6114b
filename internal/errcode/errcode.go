package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如通知未发送，但留言已保存）
// - 5xxx：系统错误（需要中断流程）
const (
	OK                 = 0
	MailDisabled       = 4001
	MailDeliveryFailed = 4002
	SystemError        = 5000
)
