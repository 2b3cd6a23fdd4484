package usecase

// チェックアウト1回分の状態。書き込みは必ずこの順で直列に行う。
type CheckoutState string

const (
	CheckoutStateIdle          CheckoutState = "IDLE"
	CheckoutStateValidating    CheckoutState = "VALIDATING"
	CheckoutStateCreatingOrder CheckoutState = "CREATING_ORDER"
	CheckoutStateWritingLines  CheckoutState = "WRITING_LINES"
	CheckoutStateClearingCart  CheckoutState = "CLEARING_CART"
	CheckoutStateCompleted     CheckoutState = "COMPLETED"
	CheckoutStateFailed        CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCompleted || s == CheckoutStateFailed
}

func (s CheckoutState) String() string {
	return string(s)
}
