/*
Package server provides a JSON API over the translation database, along with re-exporting of
changed domains to XLIFF files.
*/
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/xerrors"

	"github.com/petert82/xcstrings-tool/config"
	"github.com/petert82/xcstrings-tool/datastore"
	"github.com/petert82/xcstrings-tool/trans"
)

var log = logging.Logger("server")

type Server struct {
	db         *sqlx.DB
	driver     string
	exportDir  string
	sourceLang string
	export     chan string
}

// New creates a server using the given DB connection. Exported XLIFF files go to exportDir.
func New(db *sqlx.DB, driver, exportDir string) *Server {
	return &Server{
		db:         db,
		driver:     driver,
		exportDir:  exportDir,
		sourceLang: trans.SourceLanguage,
		export:     make(chan string, 100),
	}
}

func checkHttpWithStatus(e error, w http.ResponseWriter, status int) (hadError bool) {
	if e != nil {
		w.WriteHeader(status)

		errMsg := e.Error()
		// Don't expose the 'sql: no rows in result set' message to the user
		if status == http.StatusNotFound && errors.Is(e, sql.ErrNoRows) {
			errMsg = "not found"
		}

		jsonErr := struct {
			Error string `json:"error"`
		}{
			Error: errMsg,
		}
		enc := json.NewEncoder(w)
		_ = enc.Encode(jsonErr)

		return true
	}
	return false
}

func checkHttp(e error, w http.ResponseWriter) (hadError bool) {
	status := http.StatusInternalServerError
	if errors.Is(e, sql.ErrNoRows) {
		status = http.StatusNotFound
	}
	return checkHttpWithStatus(e, w, status)
}

func writeOk(w http.ResponseWriter) {
	_, _ = w.Write([]byte("{\"result\":\"ok\"}\n"))
}

// Instantiates a datastore for a request
func (s *Server) handleWithDatastore(f func(http.ResponseWriter, *http.Request, *datastore.DataStore)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := datastore.New(s.db, s.driver)

		if checkHttpWithStatus(err, w, http.StatusServiceUnavailable) {
			return
		}
		f(w, r, ds)
	}
}

func setJsonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

// Gets list of available languages
func getLanguagesHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	ls, err := ds.GetLanguageList()
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(ls), w)
}

// Creates a new language
func createLanguageHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	code := mux.Vars(r)["lang"]

	var content struct {
		Name string `json:"name"`
	}

	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&content)
	if err != nil {
		checkHttpWithStatus(xerrors.Errorf("could not decode request: %w", err), w, http.StatusBadRequest)
		return
	}
	if err = trans.ValidateLanguages([]string{code}); err != nil {
		checkHttpWithStatus(err, w, http.StatusBadRequest)
		return
	}

	_, err = ds.CreateLanguage(code, content.Name)
	switch {
	case errors.Is(err, datastore.ErrAlreadyExists):
		checkHttpWithStatus(err, w, http.StatusConflict)
		return

	case checkHttp(err, w):
		return
	}

	writeOk(w)
}

// Gets list of available translation domain names
func getDomainsHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	doms, err := ds.GetDomainList()
	if checkHttp(err, w) {
		return
	}

	var output struct {
		Domains []string `json:"domains"`
	}
	output.Domains = make([]string, len(doms))
	for i, d := range doms {
		output.Domains[i] = d.Name()
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Get a domain with every key's localizations and the languages it still lacks
func getDomainHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]

	dom, err := ds.GetFullDomain(name)
	if checkHttp(err, w) {
		return
	}
	langs, err := ds.GetLanguageList()
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(newDomainView(dom, langs)), w)
}

// Export a domain to XLIFF files on disk
func (s *Server) exportDomainHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]

	paths, err := ds.ExportDomain(name, s.exportDir, s.sourceLang)
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(struct {
		Files []string `json:"files"`
	}{Files: paths}), w)
}

// Update a translation with new content, creating it when the create query parameter is true.
// On success, the affected domain will be re-exported to file.
func (s *Server) createOrUpdateTranslationHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	dName := mux.Vars(r)["name"]
	lang := mux.Vars(r)["lang"]

	var content struct {
		String  string `json:"string"`
		Content string `json:"content"`
		State   string `json:"state"`
	}

	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&content)
	if err != nil {
		checkHttpWithStatus(xerrors.Errorf("could not decode request: %w", err), w, http.StatusBadRequest)
		return
	}
	if content.String == "" {
		checkHttpWithStatus(xerrors.New("string is required"), w, http.StatusBadRequest)
		return
	}
	if content.State == "" {
		content.State = "translated"
	}

	allowCreate := r.URL.Query().Get("create") == "true"

	err = ds.CreateOrUpdateTranslation(dName, content.String, lang, content.Content, content.State, allowCreate)
	if checkHttp(err, w) {
		return
	}

	writeOk(w)

	s.queueExport(dName)
}

func (s *Server) queueExport(domain string) {
	select {
	case s.export <- domain:
	default:
		log.Warnw("export queue full, skipping re-export", "domain", domain)
	}
}

// Listens for domains to export to file until ctx is done
func (s *Server) runExporter(ctx context.Context) {
	ds, err := datastore.New(s.db, s.driver)
	if err != nil {
		log.Errorw("exporter unavailable", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.export:
			paths, err := ds.ExportDomain(d, s.exportDir, s.sourceLang)
			if err != nil {
				log.Errorw("export failed", "domain", d, "err", err)
				continue
			}
			log.Debugw("exported domain", "domain", d, "files", len(paths))
		}
	}
}

// Handler returns the API routes wrapped in the JSON header middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/languages", s.handleWithDatastore(getLanguagesHandler)).Methods("GET")
	r.HandleFunc("/languages/{lang}", s.handleWithDatastore(createLanguageHandler)).Methods("PUT")
	r.HandleFunc("/domains", s.handleWithDatastore(getDomainsHandler)).Methods("GET")
	r.HandleFunc("/domains/{name}", s.handleWithDatastore(getDomainHandler)).Methods("GET")
	r.HandleFunc("/domains/{name}/translations/{lang}", s.handleWithDatastore(s.createOrUpdateTranslationHandler)).Methods("PUT")
	r.HandleFunc("/domains/{name}/export", s.handleWithDatastore(s.exportDomainHandler)).Methods("POST")

	return setJsonHeaders(r)
}

// Serve runs the API until ctx is cancelled.
func Serve(ctx context.Context, c config.Config) error {
	db, err := datastore.Connect(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	s := New(db, c.DB.Driver, c.XLIFF.ExportPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.runExporter(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", c.Server.Port),
		Handler:           handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, s.Handler())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "port", c.Server.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err = <-errc:
		return xerrors.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("server shutdown: %w", err)
	}

	return nil
}
