package notification

// 画面側のトースト相当。coreは内容と重要度だけを決める。
type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func Normal(title string, message string) Notification {
	return Notification{Title: title, Message: message, Severity: SeverityNormal}
}

func Destructive(title string, message string) Notification {
	return Notification{Title: title, Message: message, Severity: SeverityDestructive}
}
