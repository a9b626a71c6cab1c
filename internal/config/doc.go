// Package config loads skillbadge settings.
//
// Settings come from built-in defaults, an optional .skillbadge.yaml,
// SKILLBADGE_* environment variables and command-line flags. The
// dependency-to-skill table ships embedded as skills.yaml and can be
// replaced from the config file:
//
//	skills:
//	  dependencies:
//	    - dependency: svelte
//	      skill: svelte
//	  composer: [php, symfony]
package config
