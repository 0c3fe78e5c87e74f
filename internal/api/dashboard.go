package api

import (
	"embed"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Embedded dashboard page. It polls the /api endpoints from the browser.
//
//go:embed dist/*
var embeddedUI embed.FS

func getEmbedFs() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedUI, "dist")
	if err != nil {
		panic("failed to get embedded dashboard filesystem: " + err.Error())
	}
	return fs
}

// MountDashboard serves the embedded dashboard at /. Paths that match no
// embedded file fall through to the engine's NoRoute handler.
func MountDashboard(r *gin.Engine) {
	r.Use(static.Serve("/", getEmbedFs()))
}
