package site

import (
	"clientdesk/cmd/internal/service"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// InquirySubmitter takes messages from the public contact form.
type InquirySubmitter interface {
	SubmitInquiry(ctx context.Context, req *service.ContactInquiryRequest) (*service.Ack, apierror.ErrorResponse)
}

type Flash struct {
	Kind    string
	Message string
}

type Tab struct {
	Key      string
	Label    string
	Endpoint string
}

// View is the data every page template receives.
type View struct {
	Title string
	Site  *Content
	Flash *Flash
	Form  service.ContactInquiryRequest
	Tabs  []Tab
}

var dashboardTabs = []Tab{
	{Key: "clients", Label: "Clients", Endpoint: "/api/clients"},
	{Key: "services", Label: "Services", Endpoint: "/api/services"},
	{Key: "documents", Label: "Documents", Endpoint: "/api/documents"},
	{Key: "appointments", Label: "Appointments", Endpoint: "/api/appointments"},
	{Key: "inquiries", Label: "Inquiries", Endpoint: "/api/contact-inquiries"},
}

type DefaultSiteRoute struct {
	Content   *Content
	Inquiries InquirySubmitter
}

func NewSiteDefault(content *Content, inquiries InquirySubmitter) *DefaultSiteRoute {
	return &DefaultSiteRoute{Content: content, Inquiries: inquiries}
}

// Register mounts the marketing pages. contactLimit throttles form posts.
func (s *DefaultSiteRoute) Register(e *echo.Echo, contactLimit echo.MiddlewareFunc) {
	e.GET("/", s.page("home", ""))
	e.GET("/about", s.page("about", "About"))
	e.GET("/services", s.page("services", "Services"))
	e.GET("/contact", s.page("contact", "Contact"))
	e.GET("/auth", s.page("auth", "Sign In"))
	e.GET("/dashboard", s.Dashboard)
	e.POST("/contact", s.SubmitContact, contactLimit)
}

func (s *DefaultSiteRoute) page(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, &View{Title: title, Site: s.Content})
	}
}

func (s *DefaultSiteRoute) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard", &View{Title: "Dashboard", Site: s.Content, Tabs: dashboardTabs})
}

// SubmitContact handles the HTML contact form and re-renders the page with
// the outcome. A rejected form keeps what the visitor typed.
func (s *DefaultSiteRoute) SubmitContact(c echo.Context) error {
	view := &View{Title: "Contact", Site: s.Content}

	if err := c.Bind(&view.Form); err != nil {
		view.Flash = &Flash{Kind: "error", Message: apierror.MalformedBodyError.Error()}
		return c.Render(http.StatusBadRequest, "contact", view)
	}

	ack, apierr := s.Inquiries.SubmitInquiry(c.Request().Context(), &view.Form)
	if apierr != nil {
		log.Debugf("contact form rejected: %v", apierr)
		view.Flash = &Flash{Kind: "error", Message: contactError(apierr)}
		return c.Render(apierr.Code(), "contact", view)
	}

	view.Form = service.ContactInquiryRequest{}
	view.Flash = &Flash{Kind: "success", Message: ack.Message}
	return c.Render(http.StatusOK, "contact", view)
}

func contactError(apierr apierror.ErrorResponse) string {
	if apierr.Code() == http.StatusBadRequest {
		return "Please fill in your name, a valid email address and a message."
	}
	return apierr.Error()
}
