package main

import (
	"github.com/corray333/backend-labs/auditadmin/internal/app"
	"github.com/corray333/backend-labs/auditadmin/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
