package main

import (
	"github.com/hwstore/order/internal/app"
	"github.com/hwstore/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
