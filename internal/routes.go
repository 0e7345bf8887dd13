package internal

import (
	"net/http"

	"dtrplay/internal/controllers"
	"dtrplay/internal/providers"
)

func InitRoutes(api *controllers.ApiController, ui *controllers.UiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/", http.HandlerFunc(ui.Index))
	routers.Get("/static/app.css", http.HandlerFunc(ui.Stylesheet))

	routers.Get("/api/view", http.HandlerFunc(api.GetView))
	routers.Post("/api/records", http.HandlerFunc(api.AddRecord))
	routers.Post("/api/records/insert", http.HandlerFunc(api.InsertRecord))
	routers.Post("/api/records/delete", http.HandlerFunc(api.DeleteRecord))
	routers.Post("/api/records/clear", http.HandlerFunc(api.ClearRecords))
	routers.Post("/api/records/upload", http.HandlerFunc(api.UploadRecords))
	routers.Post("/api/records/import", http.HandlerFunc(api.ImportRecords))
	routers.Get("/api/records/export", http.HandlerFunc(api.ExportRecords))
	routers.Post("/api/schedules", http.HandlerFunc(api.AddSchedule))
	routers.Post("/api/schedules/update", http.HandlerFunc(api.UpdateSchedule))
	routers.Post("/api/schedules/delete", http.HandlerFunc(api.DeleteSchedule))
	routers.Post("/api/schedules/clear", http.HandlerFunc(api.ClearSchedules))
	routers.Post("/api/schedules/import", http.HandlerFunc(api.ImportSchedules))
	routers.Get("/api/schedules/export", http.HandlerFunc(api.ExportSchedules))
	routers.Post("/api/logic", http.HandlerFunc(api.SetLogic))
	routers.Post("/api/review/open", http.HandlerFunc(api.OpenReview))
	routers.Post("/api/review/close", http.HandlerFunc(api.CloseReview))
	routers.Post("/api/review/rows/add", http.HandlerFunc(api.AddReviewRow))
	routers.Post("/api/review/rows/delete", http.HandlerFunc(api.DeleteReviewRow))
	routers.Post("/api/review/rows/update", http.HandlerFunc(api.UpdateReviewRow))
	routers.Post("/api/review/save", http.HandlerFunc(api.SaveReview))
	routers.Get("/api/review/export", http.HandlerFunc(api.ExportEdited))

	routers.Post("/ui/records", http.HandlerFunc(ui.AddRecord))
	routers.Post("/ui/records/insert", http.HandlerFunc(ui.InsertRecord))
	routers.Post("/ui/records/delete", http.HandlerFunc(ui.DeleteRecord))
	routers.Post("/ui/records/clear", http.HandlerFunc(ui.ClearRecords))
	routers.Post("/ui/records/upload", http.HandlerFunc(ui.UploadRecords))
	routers.Post("/ui/records/import", http.HandlerFunc(ui.ImportRecords))
	routers.Post("/ui/schedules", http.HandlerFunc(ui.AddSchedule))
	routers.Post("/ui/schedules/update", http.HandlerFunc(ui.UpdateSchedule))
	routers.Post("/ui/schedules/delete", http.HandlerFunc(ui.DeleteSchedule))
	routers.Post("/ui/schedules/clear", http.HandlerFunc(ui.ClearSchedules))
	routers.Post("/ui/schedules/import", http.HandlerFunc(ui.ImportSchedules))
	routers.Post("/ui/logic", http.HandlerFunc(ui.SetLogic))
	routers.Post("/ui/review/open", http.HandlerFunc(ui.OpenReview))
	routers.Post("/ui/review/close", http.HandlerFunc(ui.CloseReview))
	routers.Post("/ui/review/rows/add", http.HandlerFunc(ui.AddReviewRow))
	routers.Post("/ui/review/rows/delete", http.HandlerFunc(ui.DeleteReviewRow))
	routers.Post("/ui/review/rows/update", http.HandlerFunc(ui.UpdateReviewRow))
	routers.Post("/ui/review/save", http.HandlerFunc(ui.SaveReview))
	return routers
}
