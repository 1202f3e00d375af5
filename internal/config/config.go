package config

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const envVarConfigContent = "FLUXLY_CONFIG"

func (c *Config) Init() error {
	// logging level
	if c.Debug {
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug logging enabled")
	}

	c.setDefaultValues()
	return c.validateValues()
}

func (c *Config) Dump() {
	log.Infof("Proxy server listens on %s", *c.Server.Listen)
	if len(c.Proxy.AllowedOrigins) == 0 {
		log.Warning("No allowed origin defined in config, only origin-less clients (e.g. the git CLI) will pass the origin check")
	} else {
		log.Infof("Allowed origins: %s", strings.Join(c.Proxy.AllowedOrigins, ", "))
	}
	log.Infof("Loopback origins allowed: %v", *c.Proxy.AllowLoopbackOrigins)
	if len(c.Proxy.InsecureHttpOrigins) > 0 {
		log.Infof("Insecure http upstreams: %s", strings.Join(c.Proxy.InsecureHttpOrigins, ", "))
	}
	if *c.Proxy.FollowRedirects {
		log.Infof("Upstream redirects are followed, max %d hops", *c.Proxy.MaxRedirects)
	}
	if c.Diagnostics.Enabled {
		log.Infof("Diagnostics server listens on %s", *c.Diagnostics.Listen)
	}
}

// LoadConfigOrDie builds the config snapshot from, in increasing priority:
// defaults, the yaml config file (or the FLUXLY_CONFIG envvar content), and
// the CLI / environment overrides.
func LoadConfigOrDie(cli *Cli) *Config {
	var configBuf []byte
	if configData, ok := os.LookupEnv(envVarConfigContent); ok {
		log.Infof("Loading config from envvar %s", envVarConfigContent)
		configBuf = []byte(configData)
	} else if cli.Config != "" {
		buf, err := os.ReadFile(cli.Config)
		if err != nil {
			log.Fatalf("Failed to read config file %s: %v", cli.Config, err)
		}
		configBuf = buf
	}

	cfg := Config{}
	if len(configBuf) > 0 {
		if err := yaml.Unmarshal(configBuf, &cfg); err != nil {
			log.Fatalf("Failed to parse yaml config: %v", err)
		}
	}
	cli.applyTo(&cfg)
	if err := cfg.Init(); err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}

	cfg.Dump()
	return &cfg
}
