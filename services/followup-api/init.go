package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/generation"
	httpclient "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/http-client"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/monitoring"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/services/followup-api/apihandlers"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	followupDB "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db/followup-cases"
	emailsending "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/email-sending"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/notifier"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/sms"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/templates"
	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
	smtpclient "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/smtp-client"
)

const SERVICE_NAME = "followup-api"

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_FOLLOWUP_DB_USERNAME = "FOLLOWUP_DB_USERNAME"
	ENV_FOLLOWUP_DB_PASSWORD = "FOLLOWUP_DB_PASSWORD"
	ENV_SMS_GATEWAY_API_KEY  = "SMS_GATEWAY_API_KEY"
	ENV_SMTP_PASSWORD        = "SMTP_PASSWORD"
	ENV_LLM_API_KEY          = "LLM_API_KEY"
	ENV_STAFF_JWT_SIGN_KEY   = "STAFF_JWT_SIGN_KEY"
)

type FollowupApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`

		// MetricsAPIKeys protect /metrics if set
		MetricsAPIKeys []string `json:"metrics_api_keys" yaml:"metrics_api_keys"`
	} `json:"gin_config" yaml:"gin_config"`

	StaffJWTConfig struct {
		SignKey string `json:"sign_key" yaml:"sign_key"`
	} `json:"staff_jwt_config" yaml:"staff_jwt_config"`

	// DB configs
	DBConfigs struct {
		FollowupDB db.DBConfigYaml `json:"followup_db" yaml:"followup_db"`
		// UseInMemoryStore keeps cases in process memory, for local runs only.
		UseInMemoryStore bool `json:"use_in_memory_store" yaml:"use_in_memory_store"`
	} `json:"db_configs" yaml:"db_configs"`

	GateConfig gate.Config `json:"gate_config" yaml:"gate_config"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`

	GenerationConfig struct {
		URL      string        `json:"url" yaml:"url"`
		Pathname string        `json:"pathname" yaml:"pathname"`
		APIKey   string        `json:"api_key" yaml:"api_key"`
		Model    string        `json:"model" yaml:"model"`
		Timeout  time.Duration `json:"timeout" yaml:"timeout"`
		// Templates override the local fallback templates per generation kind.
		Templates           map[string]string `json:"templates" yaml:"templates"`
		UseTemplateFallback bool              `json:"use_template_fallback" yaml:"use_template_fallback"`
	} `json:"generation_config" yaml:"generation_config"`
}

type caseStore interface {
	gate.RecordStore
	apihandlers.CaseLister
	apihandlers.Pinger
}

var (
	conf FollowupApiConfig

	store          caseStore
	metrics        *monitoring.MetricsCollector
	followupGate   *gate.Gate
	dispatcher     *notifier.Dispatcher
	caseSummarizer *generation.CaseSummarizer
	smtpClients    *smtpclient.SmtpClients
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(conf.Logging)

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Override secrets from environment variables
	secretsOverride()

	if conf.StaffJWTConfig.SignKey == "" {
		slog.Error("staff JWT sign key not set - configure " + ENV_STAFF_JWT_SIGN_KEY + " env variable")
		panic("staff JWT sign key not set")
	}

	metrics = monitoring.NewMetricsCollector(SERVICE_NAME)

	initDBs()
	initMessaging()
	initGeneration()

	followupGate = gate.New(
		store,
		conf.GateConfig,
		gate.WithSummarizer(caseSummarizer),
		gate.WithObserver(metrics),
	)
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_FOLLOWUP_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.FollowupDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_FOLLOWUP_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.FollowupDB.Password = dbPassword
	}

	if conf.MessagingConfigs.SMSConfig != nil {
		if apiKey := os.Getenv(ENV_SMS_GATEWAY_API_KEY); apiKey != "" {
			conf.MessagingConfigs.SMSConfig.APIKey = apiKey
		}
	}

	// WhatsApp may use a separate gateway account, falls back to the SMS key otherwise
	if conf.MessagingConfigs.WhatsAppConfig != nil {
		if apiKey := os.Getenv(utils.GenerateGatewayAPIKeyEnvVarName(types.CHANNEL_WHATSAPP)); apiKey != "" {
			conf.MessagingConfigs.WhatsAppConfig.APIKey = apiKey
		} else if apiKey := os.Getenv(ENV_SMS_GATEWAY_API_KEY); apiKey != "" {
			conf.MessagingConfigs.WhatsAppConfig.APIKey = apiKey
		}
	}

	if apiKey := os.Getenv(ENV_LLM_API_KEY); apiKey != "" {
		conf.GenerationConfig.APIKey = apiKey
	}

	if signKey := os.Getenv(ENV_STAFF_JWT_SIGN_KEY); signKey != "" {
		conf.StaffJWTConfig.SignKey = signKey
	}
}

func initDBs() {
	if conf.DBConfigs.UseInMemoryStore {
		slog.Warn("using in-memory case store, cases are lost on restart")
		store = followupDB.NewInMemoryStore()
		return
	}

	var err error
	store, err = followupDB.NewFollowupDBService(db.DBConfigFromYamlObj(conf.DBConfigs.FollowupDB))
	if err != nil {
		slog.Error("Error connecting to Followup DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initMessaging() {
	msgConf := conf.MessagingConfigs

	template, err := templates.FindTemplate(msgConf.Templates, messagingTypes.MESSAGE_TYPE_FOLLOWUP_CODE)
	if err != nil {
		slog.Error("no template for follow-up codes", slog.String("error", err.Error()))
		panic(err)
	}
	if err := templates.CheckAllTranslationsParsable(template.Translations, template.MessageType); err != nil {
		slog.Error("invalid template", slog.String("error", err.Error()))
		panic(err)
	}

	channels := []notifier.Channel{}
	if msgConf.SMSConfig != nil {
		channels = append(channels, sms.NewCMChannel(types.CHANNEL_SMS, sms.CM_CHANNEL_SMS, *msgConf.SMSConfig, template))
	}
	if msgConf.WhatsAppConfig != nil {
		channels = append(channels, sms.NewCMChannel(types.CHANNEL_WHATSAPP, sms.CM_CHANNEL_WHATSAPP, *msgConf.WhatsAppConfig, template))
	}
	if msgConf.SmtpServerConfigPath != "" {
		serverList := smtpclient.SmtpServerList{}
		if err := serverList.ReadFromFile(msgConf.SmtpServerConfigPath); err != nil {
			slog.Error("failed to read smtp server list", slog.String("error", err.Error()))
			panic(err)
		}
		serverList.OverridePasswords(os.Getenv(ENV_SMTP_PASSWORD))

		smtpClients, err = smtpclient.NewSmtpClients(serverList)
		if err != nil {
			slog.Error("failed to connect to smtp servers", slog.String("error", err.Error()))
			panic(err)
		}
		channels = append(channels, emailsending.NewSMTPChannel(types.CHANNEL_EMAIL, smtpClients, template, msgConf.GlobalTemplateConstants))
	}

	if len(channels) == 0 {
		slog.Warn("no delivery channel configured, codes must be shared manually")
	}
	dispatcher = notifier.NewDispatcher(msgConf.ChannelOrder, metrics, channels...)
	slog.Info("delivery channels ready", slog.String("channels", strings.Join(dispatcher.Channels(), ",")))
}

func initGeneration() {
	genConf := conf.GenerationConfig

	var generator generation.Generator = generation.NewTemplateGenerator(genConf.Templates)
	if genConf.URL != "" {
		httpGenerator := generation.NewHTTPGenerator(
			httpclient.ClientConfig{
				RootURL: genConf.URL,
				APIKey:  genConf.APIKey,
				Timeout: genConf.Timeout,
			},
			genConf.Pathname,
			genConf.Model,
		)
		if genConf.UseTemplateFallback {
			generator = generation.NewFallbackGenerator(httpGenerator, generator)
		} else {
			generator = httpGenerator
		}
	}
	caseSummarizer = generation.NewCaseSummarizer(generator)
}
