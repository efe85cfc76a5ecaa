package health

type Input struct{}

type Output struct {
	Body Response
}

// Response состояние сервера. Storage: ok, unavailable или none, если
// сервер работает без базы.
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Overall status"`
	Storage string `json:"storage" example:"ok" doc:"Document storage status"`
	Version string `json:"version,omitempty" doc:"API version"`
}
