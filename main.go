package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Statica/internal/assist"
	"Statica/internal/auth"
	frame "Statica/internal/calc/frame"
	importer "Statica/internal/calc/importer"
	report "Statica/internal/calc/report"
	"Statica/internal/erp"
	"Statica/internal/project"
	"Statica/internal/repo"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB) {
	userRepo := repo.NewPostgresDB(db)

	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	authSvc := &auth.Service{JWTKey: []byte(tokenKey), Repo: userRepo}
	limiter := auth.NewIPRateLimiter(1, 3)

	solver := frame.NewSolver()
	frameH := &frame.Handler{Solver: solver}
	importH := &importer.Handler{Solver: solver}
	reportH := &report.Handler{}
	projectH := &project.Handler{Repo: userRepo}
	assistRunner := assist.NewRunner(os.Getenv("ASSIST_CLI"))
	assistH := &assist.Handler{Runner: assistRunner}
	erpClient := erp.NewClient(
		os.Getenv("ERPNEXT_URL"),
		os.Getenv("ERPNEXT_API_KEY"),
		os.Getenv("ERPNEXT_API_SECRET"),
	)
	erpH := &erp.Handler{Client: erpClient}

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authSvc.LoginHandler).Methods("POST")
	api.HandleFunc("/register", authSvc.RegisterHandler).Methods("POST")

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":     "ok",
			"engine":     true,
			"assist_cli": assistRunner.Available(),
		})
	}).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authSvc.AuthMiddleware)

	secureApi.HandleFunc("/tools/frame/solve", frameH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/frame/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/chat", assistH.Chat).Methods("POST")

	secureApi.HandleFunc("/projects", projectH.Save).Methods("POST")
	secureApi.HandleFunc("/projects", projectH.List).Methods("GET")
	secureApi.HandleFunc("/projects/{id:[0-9]+}", projectH.Get).Methods("GET")

	secureApi.HandleFunc("/erpnext/projects", erpH.Projects).Methods("GET")
	secureApi.HandleFunc("/erpnext/project/{name}", erpH.ProjectDetail).Methods("GET")

	mux.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/app")))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, relying on environment")
	}

	db := auth.InitDB()
	defer db.Close()

	router := mux.NewRouter()
	HandleList(router, db)
	handler := CORS(router)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8443"
	}
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Starting server on", addr)
		cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY")
		var err error
		if cert != "" && key != "" {
			err = server.ListenAndServeTLS(cert, key)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
