// Simple implementation of a HTTP server publishing releases for the http source:
// the repository directory holds {owner}/{name}/manifest.yaml and the release archives.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func main() {
	var root, listen, prefix, fixedSlug string
	flag.StringVar(&root, "repo", "", "Root path of the file server")
	flag.StringVar(&listen, "listen", "localhost:9947", "IP address and port used for the HTTP server")
	flag.StringVar(&prefix, "path-prefix", "/repo", "Prefix to the root path of the HTTP server")
	flag.StringVar(&fixedSlug, "fixed-slug", "", "Only answer on this particular slug (like keyflight/configurator). When NOT specified the files will be served with the slug in the path.")
	flag.Parse()

	if root == "" {
		flag.Usage()
		os.Exit(1)
	}

	log.Print("listening on http://" + listen + path.Join("/", prefix, fixedSlug))
	server := http.Server{
		Addr:              listen,
		Handler:           handlers.LoggingHandler(os.Stdout, newRouter(root, prefix, fixedSlug)),
		ReadHeaderTimeout: 15 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// newRouter serves the files of root under prefix. With a fixed slug, root is the directory of that repository.
func newRouter(root, prefix, fixedSlug string) http.Handler {
	pathPrefix := path.Join("/", prefix, fixedSlug)
	if pathPrefix == "/" {
		pathPrefix = ""
	}
	router := mux.NewRouter()
	router.Methods(http.MethodGet, http.MethodHead).
		PathPrefix(pathPrefix + "/").
		Handler(http.StripPrefix(pathPrefix, http.FileServer(http.Dir(root))))
	return handlers.RecoveryHandler()(router)
}
