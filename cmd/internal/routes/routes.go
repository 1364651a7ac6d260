package routes

import (
	"clientdesk/cmd/internal/utils/apierror"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers groups the route sets mounted under /api.
type Handlers struct {
	Clients      *DefaultClientRoute
	Services     *DefaultEngagementRoute
	Documents    *DefaultDocumentRoute
	Appointments *DefaultAppointmentRoute
	Inquiries    *DefaultContactInquiryRoute
	Users        *DefaultUserRoute
}

// Register mounts the JSON API. session guards the dashboard routes and
// contactLimit throttles the public intake.
func Register(e *echo.Echo, h *Handlers, session, contactLimit echo.MiddlewareFunc) {
	api := e.Group("/api")

	// Public
	api.POST("/contact", h.Inquiries.SubmitInquiry, contactLimit)
	api.POST("/auth/signup", h.Users.CreateUser)
	api.POST("/auth/verify", h.Users.VerifySignup)
	api.POST("/auth/login", h.Users.CreateLogin)

	dash := api.Group("", session)

	dash.POST("/auth/logout", h.Users.Logout)
	dash.GET("/profile", h.Users.GetProfile)
	dash.PUT("/profile", h.Users.UpdateProfile)

	// Clients
	dash.GET("/clients", h.Clients.GetClients)
	dash.GET("/clients/options", h.Clients.GetClientOptions)
	dash.GET("/clients/:id", h.Clients.GetClient)
	dash.POST("/clients", h.Clients.CreateClient)
	dash.PUT("/clients/:id", h.Clients.UpdateClient)
	dash.DELETE("/clients/:id", h.Clients.DeleteClient)

	// Services
	dash.GET("/services", h.Services.GetServices)
	dash.GET("/services/options", h.Services.GetServiceOptions)
	dash.GET("/services/:id", h.Services.GetService)
	dash.POST("/services", h.Services.CreateService)
	dash.PUT("/services/:id", h.Services.UpdateService)
	dash.DELETE("/services/:id", h.Services.DeleteService)

	// Documents
	dash.GET("/documents", h.Documents.GetDocuments)
	dash.GET("/documents/:id", h.Documents.GetDocument)
	dash.GET("/documents/:id/download", h.Documents.DownloadDocument)
	dash.POST("/documents", h.Documents.UploadDocument)
	dash.PUT("/documents/:id", h.Documents.UpdateDocument)
	dash.DELETE("/documents/:id", h.Documents.DeleteDocument)

	// Appointments
	dash.GET("/appointments", h.Appointments.GetAppointments)
	dash.GET("/appointments/:id", h.Appointments.GetAppointment)
	dash.POST("/appointments", h.Appointments.CreateAppointment)
	dash.PUT("/appointments/:id", h.Appointments.UpdateAppointment)
	dash.DELETE("/appointments/:id", h.Appointments.DeleteAppointment)

	// Pseudo-entity "Calendar" listing the month's appointments
	dash.GET("/calendar", h.Appointments.GetCalendar)

	// Contact inquiries
	dash.GET("/contact-inquiries", h.Inquiries.GetInquiries)
	dash.GET("/contact-inquiries/:id", h.Inquiries.GetInquiry)
	dash.POST("/contact-inquiries/:id/respond", h.Inquiries.MarkResponded)
	dash.PATCH("/contact-inquiries/:id/status", h.Inquiries.UpdateStatus)
}

// idParam reads the record id from the path.
func idParam(c echo.Context) (string, apierror.ErrorResponse) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", apierror.NewMissingParamError("id")
	}
	return id, nil
}
