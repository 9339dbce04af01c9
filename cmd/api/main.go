package main

import (
	"fmt"
	"net/http"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/config"
	appHTTP "github.com/majkus1/time-and-leave-management-app-sub000/internal/handler/http"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/jwt"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/userlock"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/repository/postgresql"
	qrscanService "github.com/majkus1/time-and-leave-management-app-sub000/internal/service/qrscan"
	reportService "github.com/majkus1/time-and-leave-management-app-sub000/internal/service/report"
	timerService "github.com/majkus1/time-and-leave-management-app-sub000/internal/service/timer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	workdayRepo := postgresql.NewWorkdayRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	activeTimerRepo := postgresql.NewActiveTimerRepository(db)
	qrCodeRepo := postgresql.NewQRCodeRepository(db)
	scanEventRepo := postgresql.NewScanEventRepository(db)
	settingsRepo := postgresql.NewCompanySettingsRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	txRunner := postgresql.NewTxRunner(db)
	locks := userlock.New()
	loc := cfg.DisplayLocation()

	gate := timerService.NewStartGate(workdayRepo, settingsRepo, leaveRepo)
	timerSvc := timerService.NewTimerService(txRunner, workdayRepo, sessionRepo, activeTimerRepo, gate, locks, loc)
	scanSvc := qrscanService.NewScanService(txRunner, qrCodeRepo, scanEventRepo, workdayRepo, sessionRepo, activeTimerRepo, gate, locks, loc)
	reportSvc := reportService.NewReportService(workdayRepo, taskRepo, loc)

	timerHandler := appHTTP.NewTimerHandler(timerSvc)
	qrScanHandler := appHTTP.NewQRScanHandler(scanSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		timerHandler,
		qrScanHandler,
		reportHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
