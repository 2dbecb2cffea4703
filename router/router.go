package router

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/controllers"
	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/middlewares"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

// Deps is everything the HTTP layer needs. Limiter and ReadyChecks are
// optional. With no TrustedProxies, forwarding headers are ignored and the
// client IP is the peer address.
type Deps struct {
	Appointments   store.RecordStore[models.Appointment]
	Clients        store.RecordStore[models.Client]
	Complaints     store.RecordStore[models.Complaint]
	Sessions       *sessions.Manager
	Credentials    utils.Credentials
	Hub            *events.Hub
	Limiter        *middlewares.RateLimiter
	TrustedProxies []string
	Pages          fs.FS
	Assets         fs.FS
	ReadyChecks    []controllers.ReadyCheck
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		utils.ErrorLogger.WithError(err).Error("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.LoggerMiddleware())

	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	d.Sessions.OnEnd(d.Hub.DropSession)

	authCtrl := controllers.NewAuthController(d.Sessions, d.Credentials)
	apptCtrl := controllers.NewAppointmentController(d.Appointments, d.Hub)
	clientCtrl := controllers.NewClientController(d.Clients, d.Hub)
	complaintCtrl := controllers.NewComplaintController(d.Complaints, d.Hub)
	eventsCtrl := controllers.NewEventsController(d.Hub, d.Sessions)
	pageCtrl := controllers.NewPageController(d.Pages, d.Sessions)
	healthCtrl := controllers.NewHealthController(d.ReadyChecks...)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.Limiter.Limit(), h}
	}
	requireAdmin := middlewares.RequireAdmin(d.Sessions)

	r.GET("/healthz", healthCtrl.Healthz)
	r.GET("/readyz", healthCtrl.Readyz)

	// ----------------------------------------------------------------
	//                      PAGES
	// ----------------------------------------------------------------
	r.GET("/", pageCtrl.Home)
	r.GET("/admin-login.html", pageCtrl.LoginPage)
	r.GET("/admin.html", requireAdmin, pageCtrl.Dashboard)
	if d.Assets != nil {
		r.StaticFS("/static", http.FS(d.Assets))
	}

	// ----------------------------------------------------------------
	//                      PUBLIC API
	// ----------------------------------------------------------------
	api := r.Group("/api")
	{
		api.GET("/appointments", apptCtrl.ListAppointments)
		api.POST("/contact", limited(complaintCtrl.Contact)...)
	}

	// ----------------------------------------------------------------
	//                      ADMIN
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.POST("/login", limited(authCtrl.Login)...)

	auth := admin.Group("")
	auth.Use(requireAdmin)
	{
		auth.POST("/logout", authCtrl.Logout)

		auth.GET("/appointments", apptCtrl.ListAppointments)
		auth.POST("/appointments", apptCtrl.CreateAppointment)
		auth.DELETE("/appointments/:id", apptCtrl.DeleteAppointment)

		auth.GET("/clients", clientCtrl.ListClients)
		auth.POST("/clients", clientCtrl.CreateClient)
		auth.DELETE("/clients/:id", clientCtrl.DeleteClient)

		auth.GET("/complaints", complaintCtrl.ListComplaints)
		auth.DELETE("/complaints/:id", complaintCtrl.DeleteComplaint)

		auth.GET("/ws", eventsCtrl.Subscribe)
	}

	r.NoRoute(pageCtrl.NotFound)

	return r
}
