package config

import (
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "motosync",
		Location: "Asia/Manila",
		Workdir:  "/var/motosync",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
		JwtSecret: "9b6de5cc-0002-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "motosync",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/motosync/motosync.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := strconv.Atoi(evalue); err == nil {
		f(p)
	}
}

// LoadConfig loads the YAML configuration file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	appcfg := new(AppConfig)
	*appcfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, appcfg)
		}
	}

	setEnvValue("MOTOSYNC_SYSTEM_WORKDIR", func(v string) { appcfg.System.Workdir = v })
	setEnvValue("MOTOSYNC_SYSTEM_LOCATION", func(v string) { appcfg.System.Location = v })
	setEnvBoolValue("MOTOSYNC_SYSTEM_DEBUG", func(v bool) { appcfg.System.Debug = v })

	setEnvValue("MOTOSYNC_WEB_HOST", func(v string) { appcfg.Web.Host = v })
	setEnvIntValue("MOTOSYNC_WEB_PORT", func(v int) { appcfg.Web.Port = v })
	setEnvValue("MOTOSYNC_WEB_SECRET", func(v string) { appcfg.Web.Secret = v })
	setEnvValue("MOTOSYNC_WEB_JWT_SECRET", func(v string) { appcfg.Web.JwtSecret = v })

	setEnvValue("MOTOSYNC_DB_TYPE", func(v string) { appcfg.Database.Type = v })
	setEnvValue("MOTOSYNC_DB_HOST", func(v string) { appcfg.Database.Host = v })
	setEnvIntValue("MOTOSYNC_DB_PORT", func(v int) { appcfg.Database.Port = v })
	setEnvValue("MOTOSYNC_DB_NAME", func(v string) { appcfg.Database.Name = v })
	setEnvValue("MOTOSYNC_DB_USER", func(v string) { appcfg.Database.User = v })
	setEnvValue("MOTOSYNC_DB_PWD", func(v string) { appcfg.Database.Passwd = v })
	setEnvBoolValue("MOTOSYNC_DB_DEBUG", func(v bool) { appcfg.Database.Debug = v })

	setEnvValue("MOTOSYNC_LOGGER_MODE", func(v string) { appcfg.Logger.Mode = v })
	setEnvBoolValue("MOTOSYNC_LOGGER_FILE_ENABLE", func(v bool) { appcfg.Logger.FileEnable = v })
	setEnvValue("MOTOSYNC_LOGGER_FILENAME", func(v string) { appcfg.Logger.Filename = v })

	if appcfg.Logger.Filename == "" {
		appcfg.Logger.Filename = path.Join(appcfg.System.Workdir, "motosync.log")
	}

	return appcfg
}
