package conf

import "github.com/spf13/viper"

// setDefaultConfig sets default values for the configuration parameters.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main settings
	viper.SetDefault("main.name", "SongDetector")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "logs/songdetector.log")
	viper.SetDefault("main.log.maxsize", 10*1024*1024)

	// Detector settings
	viper.SetDefault("detector.modelpath", "models/detector.msgpack")
	viper.SetDefault("detector.usetrainedmodel", false)

	// Input settings
	viper.SetDefault("input.path", "")
	viper.SetDefault("input.recursive", false)

	// Output settings
	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "detections.db")

	// Web server settings
	viper.SetDefault("webserver.enabled", false)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.maxuploadsizemb", 65)
	viper.SetDefault("webserver.uploadpath", "uploads")
	viper.SetDefault("webserver.allowedtypes", []string{".mp3", ".wav", ".flac"})
	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "logs/webserver.log")
	viper.SetDefault("webserver.log.maxsize", 10*1024*1024)
}
