package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Daskott/rolodex/server/service"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func (h *handlers) writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		h.logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		h.logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func (h *handlers) writeData(rw http.ResponseWriter, data interface{}, statusCode int) {
	h.writeResponse(rw, ResponsePayload{Success: true, Data: data}, statusCode)
}

func (h *handlers) writeErrors(rw http.ResponseWriter, statusCode int, errs ...string) {
	h.writeResponse(rw, ResponsePayload{Errors: errs}, statusCode)
}

// writeServiceError maps the error kinds returned by the services to a status code.
func (h *handlers) writeServiceError(rw http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeErrors(rw, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		h.writeErrors(rw, http.StatusConflict, err.Error())
	default:
		h.writeErrors(rw, http.StatusInternalServerError, err.Error())
	}
}

func validationErrors(err error) []string {
	return strings.Split(err.Error(), "\n")
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// stringFields checks every field in args is a non-empty string passing its
// validation tag, and returns them as strings.
func stringFields(validate *validator.Validate, args map[string]interface{}, tags map[string]string) (map[string]string, []string) {
	var errs []string
	fields := make(map[string]string)

	for key, value := range args {
		str, ok := value.(string)
		if !ok {
			errs = append(errs, key+" must be a string")
			continue
		}

		if strings.TrimSpace(str) == "" {
			errs = append(errs, key+" cannot be empty")
			continue
		}

		if tag := tags[key]; tag != "" {
			if err := validate.Var(str, tag); err != nil {
				errs = append(errs, key+" is invalid")
				continue
			}
		}

		fields[key] = str
	}

	return fields, errs
}

// valueOr returns fields[key] if it was supplied, fallback otherwise.
func valueOr(fields map[string]string, key, fallback string) string {
	if value, ok := fields[key]; ok {
		return value
	}
	return fallback
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server, logg *zap.SugaredLogger) {
	logg.Infof("Rolodex server is listening on %v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func shutdown(server *http.Server, logg *zap.SugaredLogger) {
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Rolodex server shutdown failed:%+s", err)
	}

	logg.Infof("Rolodex server stopped properly")
}

// configDirectory retrieves the directory to store rolodex data.
// Or logs an error message and then calls os.Exit if it's unable to.
func configDirectory(devMode bool, logg *zap.SugaredLogger) string {
	// Use 'rolodex' folder in home directory for prod
	configFolderName := "rolodex"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err, logg)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err, logg)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err, logg)

	return configDir
}

func fatalOnError(err error, logg *zap.SugaredLogger) {
	if err != nil {
		logg.Fatal(err)
	}
}
