// Package config loads project configuration for the markup tool.
//
// The configuration lives in markup.json or markup.yaml at the project
// root. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "requires": "v1.0.0",
//	  "documents": "pages",
//	  "coercionMode": "warn",
//	  "validateChildren": true,
//	  "validateAttributes": true,
//	  "maxExpansionDepth": 256,
//	  "preview": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "watch": ["pages"]
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "markup"
//	  },
//	  "publish": {
//	    "dir": "dist",
//	    "s3": {"bucket": "site", "prefix": "docs/", "region": "eu-west-1"}
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	restore, err := cfg.Apply()
//	defer restore()
package config
