// cmd/main.go
package main

import (
	"reading-list-api/app"
)

// @title           Reading List API
// @version         1.0
// @description     A personal reading-list tracker with cookie-based JWT authentication.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
