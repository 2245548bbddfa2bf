package main

import (
	"bbm-backend/cmd/bbm/commands"
	"bbm-backend/internal/serviceutil"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
