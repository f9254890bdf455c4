package config

import "github.com/spf13/viper"

// Logger logger config struct
type Logger struct {
	Level      string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format     string `validate:"oneof=json text"`
	Output     string `validate:"oneof=stdout stderr file"`
	OutputFile string `validate:"required_if=Output file"`
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetString("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
