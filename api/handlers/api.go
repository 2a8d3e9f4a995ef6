package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/api"
	"github.com/mentorhub/mentor-portal-api/config"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/directory"
	"github.com/mentorhub/mentor-portal-api/models"
	"github.com/mentorhub/mentor-portal-api/session"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.DatabaseHelper
	Config   config.Config
	Hub      *Hub
	dbHelper databases.DatabaseHelper
	resolver *session.Resolver
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	accDB := databases.NewAccountDatabase(a.dbHelper)
	adminDB := databases.NewAdminDatabase(a.dbHelper)
	mentorDB := databases.NewMentorDatabase(a.dbHelper)
	menteeDB := databases.NewMenteeDatabase(a.dbHelper)
	leaveDB := databases.NewLeaveApplicationDatabase(a.dbHelper)
	chatDB := databases.NewChatDatabase(a.dbHelper)
	messageDB := databases.NewMessageDatabase(a.dbHelper)

	a.resolver = &session.Resolver{
		ADB:   adminDB,
		MDB:   mentorDB,
		SDB:   menteeDB,
		Cache: a.sessionCache(),
	}

	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: accDB, Resolver: a.resolver}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	guard := &directory.Guard{AccDB: accDB, MDB: mentorDB, SDB: menteeDB, LDB: leaveDB}

	admin := Admin{ADB: adminDB, AccDB: accDB}
	mentor := Mentor{DB: mentorDB, Guard: guard}
	mentee := Mentee{DB: menteeDB, MDB: mentorDB, Guard: guard}
	leave := LeaveApplication{DB: leaveDB, SDB: menteeDB, Guard: guard}
	chat := Chat{CDB: chatDB, MsgDB: messageDB, Resolver: a.resolver, Hub: a.Hub}
	sess := SessionHandler{Resolver: a.resolver}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// the websocket route lives outside the timeout-guarded subrouter; a held
	// connection is not a slow request
	r.Handle("/api/v1/ws", http.HandlerFunc(a.Hub.ServeWS))

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(m.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/signup", http.HandlerFunc(mentee.SignupHandler)).Methods("POST")

	apiCreate.Handle("/session", api.Middleware(http.HandlerFunc(sess.SessionHandler))).Methods("GET")

	apiCreate.Handle("/mentors", api.AdminOnly(http.HandlerFunc(mentor.MentorsHandler))).Methods("GET")
	apiCreate.Handle("/mentors", api.AdminOnly(http.HandlerFunc(mentor.CreateMentorHandler))).Methods("POST")
	apiCreate.Handle("/mentor/{mentor_id}", api.AdminOnly(http.HandlerFunc(mentor.DeleteMentorHandler))).Methods("DELETE")
	apiCreate.Handle("/mentees", api.AdminOnly(http.HandlerFunc(mentee.MenteesHandler))).Methods("GET")
	apiCreate.Handle("/mentees", api.AdminOnly(http.HandlerFunc(mentee.CreateMenteeHandler))).Methods("POST")
	apiCreate.Handle("/mentee/{mentee_id}", api.AdminOnly(http.HandlerFunc(mentee.DeleteMenteeHandler))).Methods("DELETE")

	apiCreate.Handle("/mentors/{mentor_id}", api.Middleware(http.HandlerFunc(mentor.MentorByIDHandler))).Methods("GET")
	apiCreate.Handle("/mentors/{mentor_id}/mentees", api.Middleware(http.HandlerFunc(mentee.MenteesByMentorIDHandler))).Methods("GET")
	apiCreate.Handle("/mentors/{mentor_id}/leave-applications", api.Middleware(http.HandlerFunc(leave.LeaveApplicationsByMentorIDHandler))).Methods("GET")
	apiCreate.Handle("/mentees/{mentee_id}", api.Middleware(http.HandlerFunc(mentee.MenteeByIDHandler))).Methods("GET")
	apiCreate.Handle("/mentees/{mentee_id}/leave-applications", api.Middleware(http.HandlerFunc(leave.LeaveApplicationsByMenteeIDHandler))).Methods("GET")
	apiCreate.Handle("/mentee/by-email", api.Middleware(http.HandlerFunc(mentee.MenteeByEmailHandler))).Methods("GET")
	apiCreate.Handle("/mentees/{mentee_id}/attendance", api.Middleware(http.HandlerFunc(mentee.UpdateAttendanceHandler))).Methods("PUT")

	apiCreate.Handle("/leave-applications", api.Middleware(http.HandlerFunc(leave.CreateLeaveApplicationHandler))).Methods("POST")
	apiCreate.Handle("/leave-applications/{leave_id}/status", api.Middleware(http.HandlerFunc(leave.UpdateLeaveStatusHandler))).Methods("PUT")

	apiCreate.Handle("/chats", api.Middleware(http.HandlerFunc(chat.ChatsHandler))).Methods("GET")
	apiCreate.Handle("/chats/{chat_id}/messages", api.Middleware(http.HandlerFunc(chat.MessagesByChatIDHandler))).Methods("GET")
	apiCreate.Handle("/chats/{chat_id}/messages", api.Middleware(http.HandlerFunc(chat.SendMessageHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	a.DB = a.dbHelper
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("mentor-portal-api has connected to the database")

	a.Hub = NewHub()
	go a.Hub.Run()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// sessionCache builds the redis-backed session cache. A missing or bad redis
// url degrades to no cache; the resolver treats that the same as a miss.
func (a *App) sessionCache() session.Cache {
	if a.Config.RedisURL == "" {
		zap.S().Warn("REDIS_URL not set, session cache fallback disabled")
		return nil
	}
	c, err := session.NewRedisCache(a.Config.RedisURL)
	if err != nil {
		zap.S().Errorw("failed to init session cache", "error", err)
		return nil
	}
	return c
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
