package serviceiface

// Service is the unit the app manager starts and stops in yaml order.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
