package entities

// Device identifies the simulated recycler a stream of readings belongs to.
type Device struct {
	ID   string `json:"id"`   // unique device identifier
	Name string `json:"name"` // display name on the dashboard
}
