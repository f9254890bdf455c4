package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server configures the demo API server.
type Server struct {
	Host         string        `validate:"required"`
	Port         int           `validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
	// Latency is added to every API response to make loading states visible.
	Latency time.Duration `validate:"gte=0"`
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:         v.GetString("server.host"),
		Port:         v.GetInt("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Latency:      v.GetDuration("server.latency"),
	}
}
