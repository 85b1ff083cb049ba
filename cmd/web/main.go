// @title           Newsroom API
// @version         1.0
// @description     News publishing platform with editorial approval and subscriber notifications.
// @host            localhost:8000
// @BasePath        /

package main

import "newsroom_backend/internal/app"

func main() {
	app.Run()
}
