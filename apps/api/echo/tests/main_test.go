package tests

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/shindano/apps/api/echo"
	"github.com/trezcool/shindano/core"
	"github.com/trezcool/shindano/core/event"
	"github.com/trezcool/shindano/core/judging"
	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
	emailsvc "github.com/trezcool/shindano/services/email"
	logsvc "github.com/trezcool/shindano/services/logger"
	dummydb "github.com/trezcool/shindano/storage/database/dummy"
)

var (
	db  *dummydb.DB
	app echoapi.Server

	usrRepo  user.Repository
	evtRepo  event.Repository
	teamRepo team.Repository
	jdgRepo  judging.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	conf := &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Shindano",
		SecretKey: "0d1f31ee-92d5-4a8e-ba9a-4d6a386ad617",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	var err error
	if db, err = dummydb.Open(); err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = dummydb.NewUserRepository(db)
	evtRepo = dummydb.NewEventRepository(db)
	teamRepo = dummydb.NewTeamRepository(db)
	jdgRepo = dummydb.NewJudgingRepository(db)
	lbRepo := dummydb.NewLeaderboardRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	eventSvc := event.NewService(evtRepo)
	teamSvc := team.NewService(teamRepo)
	judgingSvc := judging.NewService(jdgRepo)
	leaderboardSvc := leaderboard.NewService(lbRepo)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			EventSvc:       eventSvc,
			TeamSvc:        teamSvc,
			JudgingSvc:     judgingSvc,
			LeaderboardSvc: leaderboardSvc,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
