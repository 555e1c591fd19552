// Package config loads tidyup configuration files.
//
// Configuration is layered with koanf: embedded defaults, then the user's
// config file (YAML or TOML, chosen by extension), then TIDYUP_*
// environment variables for settings. For example:
//
//	settings:
//	  rename_template: "{name}-{counter}{extension}"
//	rules:
//	  - name: Sort invoices
//	    locations: ~/Downloads
//	    filters:
//	      - extension: pdf
//	      - name: {startswith: Invoice}
//	    actions:
//	      - move: ~/Documents/Invoices/
//
// TIDYUP_SIMULATE=true sets settings.simulate, TIDYUP_TRASH_DIR sets
// settings.trash_dir and so on.
package config
