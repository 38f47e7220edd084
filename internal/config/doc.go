// Package config provides configuration loading for City projects.
//
// Configuration lives in city.json or city.toml at the project root. Values
// can be overridden from the environment, optionally seeded from a .env file.
//
// # Configuration File Structure
//
//	{
//	  "routesDir": "app/routes",
//	  "manifest": "city.manifest.json",
//	  "trailingSlash": false,
//	  "cacheSize": 512,
//	  "maxBodySize": "1MB",
//	  "s3": {
//	    "region": "eu-west-1"
//	  }
//	}
//
// The same keys are accepted in TOML:
//
//	routesDir = "app/routes"
//	manifest = "s3://my-bucket/city.manifest.json"
//
//	[s3]
//	region = "eu-west-1"
//
// # Environment
//
//	CITY_ROUTES_DIR, CITY_MANIFEST, CITY_TRAILING_SLASH,
//	CITY_CACHE_SIZE, CITY_MAX_BODY_SIZE, CITY_S3_REGION
//
// # Usage
//
//	cfg, err := config.LoadEnv(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Routes:", cfg.RoutesPath())
package config
