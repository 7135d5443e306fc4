package core

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", false)
	Conf.SetDefault("appName", "iclass-cli")
	Conf.SetDefault("configFile", "iclass-config.json")
	Conf.SetDefault("cookieFile", "iclass-cookie.json")
	Conf.SetDefault("ssoBaseURL", "https://sso.buaa.edu.cn")
	Conf.SetDefault("apiBaseURL", "https://iclass.buaa.edu.cn:8346")
	Conf.SetDefault("tzOffsetHours", 8) // campus wall clock
	Conf.SetDefault("checkinMargin", 5*time.Second)
	Conf.SetDefault("httpTimeout", 15*time.Second)

	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("config.godotenv: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(.env): %v", err)
	}
	Conf.SetEnvPrefix("iclass")
	Conf.AutomaticEnv()
}

// Timezone returns the fixed offset in which check-in deadlines are computed.
// The platform runs on the campus wall clock regardless of where the tool runs.
func Timezone() *time.Location {
	hours := Conf.GetInt("tzOffsetHours")
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
}
