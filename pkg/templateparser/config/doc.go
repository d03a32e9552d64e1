/*
Package config loads the settings used to open a template library.

# Basic Usage

Start from the defaults and override what you need:

	s := config.Default()
	s.Style = "bracket"
	s.Store = config.StoreSettings{Driver: config.DriverSQLite, Path: "templates.db"}

	lib, err := templateparser.OpenLibrary(s)

# File Loading

Load settings from YAML or JSON. Missing fields keep their defaults and
unknown fields are an error:

	s, err := config.FromFile("templates.yaml")

	// templates.yaml
	style: bracket
	log_level: debug
	metrics: true
	store:
	  driver: sqlite
	  path: /var/lib/app/templates.db

Every loader runs Validate before returning.
*/
package config
