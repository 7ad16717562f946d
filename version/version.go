// version/version.go
package version

import "fmt"

// AppName holds the name of the application
var AppName = "go-api-session-client"

// Version holds the current version of the application
var Version = "0.1.0"

// GetAppName returns the name of the application
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the application
func GetVersion() string {
	return Version
}

// UserAgent returns the default User-Agent header value, "<app>/<version>".
func UserAgent() string {
	return fmt.Sprintf("%s/%s", AppName, Version)
}
