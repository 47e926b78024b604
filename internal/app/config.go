package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/matching"
	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/notify"
	"github.com/shrimpsizemoose/rollbook/internal/scoring"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

// Defaults are the initial values of the manually entered grade book fields.
type Defaults struct {
	AbsentFull            int     `toml:"absent_full" validate:"gte=0"`
	ReportStatus          string  `toml:"report_status"`
	PaizaDone             float64 `toml:"paiza_done" validate:"gte=0"`
	SiteRequirementsDone  float64 `toml:"site_requirements_done" validate:"gte=0"`
	SiteRequirementsTotal float64 `toml:"site_requirements_total" validate:"gte=0"`
	FinalStatus           string  `toml:"final_status"`
	AttitudePenalty       float64 `toml:"attitude_penalty" validate:"gte=0"`
}

func (d Defaults) Inputs() models.Inputs {
	return models.Inputs{
		AbsentFull:            d.AbsentFull,
		ReportStatus:          textnorm.Normalize(d.ReportStatus),
		PaizaDone:             d.PaizaDone,
		SiteRequirementsDone:  d.SiteRequirementsDone,
		SiteRequirementsTotal: d.SiteRequirementsTotal,
		FinalStatus:           textnorm.Normalize(d.FinalStatus),
		AttitudePenalty:       d.AttitudePenalty,
	}
}

type Config struct {
	Attendance    scoring.Attendance `toml:"attendance"`
	Learning      scoring.Weights    `toml:"learning"`
	GradeBoundary scoring.Boundaries `toml:"grade_boundary"`
	Defaults      Defaults           `toml:"defaults"`

	Form struct {
		Policy           string   `toml:"policy" validate:"oneof=explicit inferred"`
		TimestampColumn  string   `toml:"timestamp_column" validate:"required"`
		ContactColumn    string   `toml:"contact_column"`
		StudentNoColumn  string   `toml:"student_no_column" validate:"required"`
		ClassColumn      string   `toml:"class_column" validate:"required_if=Policy explicit"`
		Timezone         string   `toml:"timezone"`
		TimestampLayouts []string `toml:"timestamp_layouts"`
	} `toml:"form"`

	Input struct {
		RosterSheet string `toml:"roster_sheet"`
		FormSheet   string `toml:"form_sheet"`
	} `toml:"input"`

	Assessments struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"assessments"`

	Export struct {
		Path   string `toml:"path"`
		GSheet struct {
			SpreadsheetID   string `toml:"spreadsheet_id"`
			CredentialsPath string `toml:"credentials_path" validate:"required_with=SpreadsheetID"`
		} `toml:"gsheet"`
	} `toml:"export"`

	Notify struct {
		RedisURL    string `toml:"redis_url"`
		KeyTemplate string `toml:"key_template"`
	} `toml:"notify"`

	Metrics struct {
		PushgatewayURL string `toml:"pushgateway_url" validate:"omitempty,url"`
		Job            string `toml:"job"`
	} `toml:"metrics"`

	location *time.Location
}

// DefaultConfig holds the values used for keys the config file leaves out.
func DefaultConfig() Config {
	var c Config
	c.Defaults = Defaults{
		ReportStatus:          scoring.ReportPartialError,
		SiteRequirementsTotal: 8,
		FinalStatus:           scoring.FinalSubmitted,
	}
	c.Form.Policy = matching.PolicyInferred
	c.Form.Timezone = "Local"
	c.Assessments.MigrationsDir = "./migrations"
	c.Export.Path = "gradebook.xlsx"
	c.Notify.KeyTemplate = notify.DefaultKeyTemplate
	c.Metrics.Job = "rollbook"
	return c
}

func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(config.Form.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid form timezone %q: %w", config.Form.Timezone, err)
	}
	config.location = loc

	return &config, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s\n> Error: %w", path, err)
	}

	logger.Debug.Printf("Loaded attendance config: %+v", config.Attendance)
	logger.Debug.Printf("Loaded grade boundaries: %+v", config.GradeBoundary)

	return config, nil
}

func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) Grader() *scoring.Grader {
	return scoring.NewGrader(c.Attendance, c.Learning, c.GradeBoundary)
}
