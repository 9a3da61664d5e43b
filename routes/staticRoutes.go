package routes

import (
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
)

// AddStaticRoutes serves uploaded stamp images.
func AddStaticRoutes(router *httprouter.Router) {
	dir := os.Getenv("STAMP_UPLOAD_DIR")
	if dir == "" {
		dir = "./static/stamppic"
	}
	router.ServeFiles("/stamppic/*filepath", http.Dir(dir))
}
