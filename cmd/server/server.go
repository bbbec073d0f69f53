package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"courseta/config"
	"courseta/db"
	"courseta/handlers"
	"courseta/services"
	"courseta/services/chat"
	"courseta/services/instructor"
	"courseta/services/pinecone"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	courseRepo, err := db.NewPostgresCourseRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize course database: %v", err)
	}
	defer courseRepo.Close()

	assignmentRepo, err := db.NewPostgresAssignmentRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize assignment database: %v", err)
	}
	defer assignmentRepo.Close()

	materialRepo, err := db.NewPostgresMaterialRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize material database: %v", err)
	}
	defer materialRepo.Close()

	sessionRepo, err := db.NewPostgresSessionRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize session database: %v", err)
	}
	defer sessionRepo.Close()

	conceptCheckRepo, err := db.NewPostgresConceptCheckRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize concept check database: %v", err)
	}
	defer conceptCheckRepo.Close()

	var pineconeService *pinecone.Service
	if cfg.PineconeAPIKey != "" {
		pineconeService, err = pinecone.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
		if err != nil {
			log.Fatalf("Failed to initialize Pinecone service: %v", err)
		}
	} else {
		log.Printf("[WARN] PINECONE_API_KEY not set, material retrieval disabled")
	}

	storageDir := os.Getenv("MATERIALS_DIR")
	if storageDir == "" {
		storageDir = "data/materials"
	}
	fileStore := services.NewLocalFileStore(storageDir)

	courseService := services.NewCourseService(courseRepo)
	courseHandler := handlers.NewCourseHandler(courseService)

	assignmentService := services.NewAssignmentService(assignmentRepo)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)

	materialService := services.NewMaterialService(materialRepo, fileStore, pineconeService, cfg.OpenAIAPIKey)
	materialHandler := handlers.NewMaterialHandler(materialService)

	var retriever chat.ChunkRetriever
	if pineconeService != nil {
		retriever = pineconeService
	}
	chatService := chat.NewService(courseRepo, assignmentRepo, sessionRepo, conceptCheckRepo, materialRepo, retriever, cfg.OpenAIAPIKey)
	chatHandler := handlers.NewChatHandler(chatService)

	insightService := services.NewInsightService(sessionRepo, assignmentRepo)
	insightHandler := handlers.NewInsightHandler(insightService)

	instructorService, err := instructor.NewService(cfg.AnthropicAPIKey, insightService, sessionRepo, assignmentRepo)
	if err != nil {
		log.Fatalf("Failed to initialize instructor service: %v", err)
	}
	instructorHandler := handlers.NewInstructorHandler(instructorService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	courseHandler.RegisterRoutes(router)
	assignmentHandler.RegisterRoutes(router)
	materialHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)
	insightHandler.RegisterRoutes(router)
	instructorHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
