package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/apimodel"
	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/event"
	"github.com/tlegoff/charlcd/internal/tool"
)

// Api is the HTTPS status and control endpoint. Every request that touches
// server state is turned into an ApiEvent and answered by the main loop, so
// the handlers never share data with it.
type Api struct {
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewApi(config *config.ServerConfig) *Api {
	api := Api{
		config:       config,
		eventChannel: make(chan event.ApiEvent),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				// Check API Key
				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// Create server check endpoint
	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/status",
		func(w http.ResponseWriter, r *http.Request) {
			data := &event.ApiEventStatusData{}
			result := make(chan error)
			api.eventChannel <- event.ApiEvent{Result: result, Data: data}
			err := <-result
			if err != nil {
				GlobalErrorAction(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			err = json.NewEncoder(w).Encode(data.Status)
			if err != nil {
				logrus.Errorf("Unable to encode status: %v", err)
			}
		}).Methods("GET")
	api.apiRouter.HandleFunc("/server_msg/{text}/{frames}",
		func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			text, ok := vars["text"]
			if !ok {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			framesStr, ok := vars["frames"]
			if !ok {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			frames, err := strconv.ParseInt(framesStr, 10, 0)
			if err != nil {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}

			result := make(chan error)
			api.eventChannel <- event.ApiEvent{Result: result, Data: event.ApiEventServerMsgData{Text: text, Frames: int(frames)}}
			err = <-result
			if err == nil {
				ErrorStatusAction(w, r, http.StatusOK)
			} else {
				GlobalErrorAction(w, err.Error(), http.StatusForbidden)
			}
		}).Methods("POST")
	api.apiRouter.HandleFunc("/output/{state}",
		func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			stateStr, ok := vars["state"]
			if !ok {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			state, err := strconv.ParseInt(stateStr, 0, 0)
			if err != nil {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			result := make(chan error)
			api.eventChannel <- event.ApiEvent{Result: result, Data: event.ApiEventOutputData{State: int(state)}}
			err = <-result
			if err == nil {
				ErrorStatusAction(w, r, http.StatusOK)
			} else {
				GlobalErrorAction(w, err.Error(), http.StatusForbidden)
			}
		}).Methods("POST")
	api.apiRouter.HandleFunc("/backlight/{state}",
		func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			state, ok := vars["state"]
			if !ok {
				ErrorStatusAction(w, r, http.StatusBadRequest)
				return
			}
			result := make(chan error)
			api.eventChannel <- event.ApiEvent{Result: result, Data: event.ApiEventBacklightData{State: state}}
			err := <-result
			if err == nil {
				ErrorStatusAction(w, r, http.StatusOK)
			} else {
				GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
			}
		}).Methods("POST")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		err = tool.GenerateTlsCertificate(
			"charlcd",
			"charlcd Server",
			d.selfSignedKeyFilename(),
			d.selfSignedCertFilename(),
			[]string{})
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err.Error() != "http: Server closed" {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	d.server.Shutdown(context.Background())
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

func (d *Api) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Api) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	ErrorMessageAction(w, message, status)
}

func ErrorMessageAction(w http.ResponseWriter, title string, status int) {
	errorMessage := &apimodel.ErrorMessage{
		ErrStatusCode: status,
		ErrMessage:    title,
	}

	if title == "" {
		switch status {
		case http.StatusOK:
			errorMessage.ErrMessage = "Ok"
		case http.StatusNotFound:
			errorMessage.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			errorMessage.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			errorMessage.ErrMessage = "Forbidden"
		case http.StatusServiceUnavailable:
			errorMessage.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			errorMessage.ErrMessage = "Bad request"
		default:
			errorMessage.ErrMessage = "Internal error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorMessage)
}
