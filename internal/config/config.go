package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host       string     `koanf:"host"`
	LocalCache LocalCache `koanf:"localcache"`
	Store      Store      `koanf:"store"`
	Gemini     Gemini     `koanf:"gemini"`
	Firebase   Firebase   `koanf:"firebase"`
	Session    Session    `koanf:"session"`
}

// LocalCache configures the on-device sqlite database used for
// offline-mode writes.
type LocalCache struct {
	Path string `koanf:"path"`
}

// Store configures the remote table store (a PostgREST-style REST API).
type Store struct {
	URL string `koanf:"url"`
	Key string `koanf:"key"`
}

type Gemini struct {
	APIKey string `koanf:"apikey"`
	Model  string `koanf:"model"`
}

type Firebase struct {
	ProjectID string `koanf:"projectid"`
}

// Session holds the profile-refresh freshness windows, in minutes.
type Session struct {
	ColdStartRefreshMinutes  int `koanf:"coldstartrefreshminutes"`
	ForegroundRefreshMinutes int `koanf:"foregroundrefreshminutes"`
}

func (s Store) Configured() bool {
	return s.URL != ""
}

func (g Gemini) Configured() bool {
	return g.APIKey != ""
}

func (f Firebase) Configured() bool {
	return f.ProjectID != ""
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:5000",
		LocalCache: LocalCache{
			Path: "storage/finvoice.db",
		},
		Gemini: Gemini{
			Model: "gemini-2.0-flash",
		},
		Session: Session{
			ColdStartRefreshMinutes:  30,
			ForegroundRefreshMinutes: 10,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINVOICE_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINVOICE_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
