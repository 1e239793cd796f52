// Application server is the main server for the application
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/starquake/quizbase/cmd/server/app"
)

func main() {
	// A missing .env file is not an error, the environment may be set directly.
	_ = godotenv.Load()

	if err := app.Run(context.Background(), os.Getenv, os.Stdout, nil); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
