/*
Copyright © 2021, 2022, 2023 Red Hat, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package conf

// This source file contains definition of data type named ConfigStruct that
// represents configuration of Insights Calculator. This source file also
// contains function named LoadConfiguration that can be used to load
// configuration from provided configuration file and/or from environment
// variables. Additionally several specific functions named
// GetStorageConfiguration, GetLoggingConfiguration,
// GetKafkaBrokerConfiguration, GetCalculatorConfiguration and
// GetMetricsConfiguration are to be used to return specific configuration
// options.

// Default name of configuration file is config.toml
// It can be changed via environment variable INSIGHTS_CALCULATOR_CONFIG_FILE

// An example of configuration file that can be used in devel environment:
//
// [logging]
// debug = true
// log_level = "info"
//
// [storage]
// db_driver = "sqlite3"
// sqlite_datasource = "./calculator.db"
// log_sql_queries = true
//
// [kafka_broker]
// enabled = false
// addresses = "localhost:9092"
// topic = "calculator_evaluations"
// event_filter = "failed == 0"
//
// [calculator]
// show_expression = true
// journal_enabled = true
//
// Environment variables that can be used to override configuration file
// settings are derived from the key path, for example
// INSIGHTS_CALCULATOR__KAFKA_BROKER__ENABLED or
// INSIGHTS_CALCULATOR__STORAGE__DB_DRIVER

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/RedHatInsights/insights-operator-utils/logger"
	clowder "github.com/redhatinsights/app-common-go/pkg/api/v1"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Common constants used during configuration loading
const (
	// ConfigFileEnvVariableName is name of environment variable that
	// contains name of configuration file
	ConfigFileEnvVariableName = "INSIGHTS_CALCULATOR_CONFIG_FILE"

	// DefaultConfigFileName is default name of configuration file
	DefaultConfigFileName = "config"

	// envPrefix is prefix for all environment variables overriding
	// configuration file settings
	envPrefix = "INSIGHTS_CALCULATOR_"

	// clowderDBSSLMode is used for database connections opened under
	// Clowder
	clowderDBSSLMode = "sslmode=require"
)

// ConfigStruct is a structure holding the whole calculator configuration
type ConfigStruct struct {
	Logging      logger.LoggingConfiguration       `mapstructure:"logging"       toml:"logging"`
	CloudWatch   logger.CloudWatchConfiguration    `mapstructure:"cloudwatch"    toml:"cloudwatch"`
	Sentry       logger.SentryLoggingConfiguration `mapstructure:"sentry"        toml:"sentry"`
	KafkaZerolog logger.KafkaZerologConfiguration  `mapstructure:"kafka_zerolog" toml:"kafka_zerolog"`
	Storage      StorageConfiguration              `mapstructure:"storage"       toml:"storage"`
	Kafka        KafkaConfiguration                `mapstructure:"kafka_broker"  toml:"kafka_broker"`
	Metrics      MetricsConfiguration              `mapstructure:"metrics"       toml:"metrics"`
	Cleaner      CleanerConfiguration              `mapstructure:"cleaner"       toml:"cleaner"`
	Calculator   CalculatorConfiguration           `mapstructure:"calculator"    toml:"calculator"`
}

// StorageConfiguration represents configuration of the evaluation journal
type StorageConfiguration struct {
	Driver           string `mapstructure:"db_driver"         toml:"db_driver"`
	SQLiteDataSource string `mapstructure:"sqlite_datasource" toml:"sqlite_datasource"`
	PGUsername       string `mapstructure:"pg_username"       toml:"pg_username"`
	PGPassword       string `mapstructure:"pg_password"       toml:"pg_password"`
	PGHost           string `mapstructure:"pg_host"           toml:"pg_host"`
	PGPort           int    `mapstructure:"pg_port"           toml:"pg_port"`
	PGDBName         string `mapstructure:"pg_db_name"        toml:"pg_db_name"`
	PGParams         string `mapstructure:"pg_params"         toml:"pg_params"`
	LogSQLQueries    bool   `mapstructure:"log_sql_queries"   toml:"log_sql_queries"`
}

// KafkaConfiguration represents configuration of Kafka brokers and topics
type KafkaConfiguration struct {
	Enabled          bool          `mapstructure:"enabled"           toml:"enabled"`
	Addresses        string        `mapstructure:"addresses"         toml:"addresses"`
	SecurityProtocol string        `mapstructure:"security_protocol" toml:"security_protocol"`
	CertPath         string        `mapstructure:"cert_path"         toml:"cert_path"`
	SaslMechanism    string        `mapstructure:"sasl_mechanism"    toml:"sasl_mechanism"`
	SaslUsername     string        `mapstructure:"sasl_username"     toml:"sasl_username"`
	SaslPassword     string        `mapstructure:"sasl_password"     toml:"sasl_password"`
	Topic            string        `mapstructure:"topic"             toml:"topic"`
	Timeout          time.Duration `mapstructure:"timeout"           toml:"timeout"`
	EventFilter      string        `mapstructure:"event_filter"      toml:"event_filter"`
}

// MetricsConfiguration holds metrics related configuration
type MetricsConfiguration struct {
	Job              string        `mapstructure:"job_name"           toml:"job_name"`
	Namespace        string        `mapstructure:"namespace"          toml:"namespace"`
	Subsystem        string        `mapstructure:"subsystem"          toml:"subsystem"`
	GatewayURL       string        `mapstructure:"gateway_url"        toml:"gateway_url"`
	GatewayAuthToken string        `mapstructure:"gateway_auth_token" toml:"gateway_auth_token"`
	Retries          int           `mapstructure:"retries"            toml:"retries"`
	RetryAfter       time.Duration `mapstructure:"retry_after"        toml:"retry_after"`
}

// CleanerConfiguration represents configuration for the journal cleaner
type CleanerConfiguration struct {
	// MaxAge is specification of max age for records to be cleaned
	MaxAge string `mapstructure:"max_age" toml:"max_age"`
}

// CalculatorConfiguration represents configuration of the interactive
// front-end
type CalculatorConfiguration struct {
	// ShowExpression enables printing the committed expression prefix
	// together with the display value
	ShowExpression bool `mapstructure:"show_expression" toml:"show_expression"`

	// JournalEnabled enables recording of evaluations into storage
	JournalEnabled bool `mapstructure:"journal_enabled" toml:"journal_enabled"`

	// Prompt is printed before each line of input in interactive mode
	Prompt string `mapstructure:"prompt" toml:"prompt"`
}

// LoadConfiguration loads configuration from defaultConfigFile, file set in
// configFileEnvVariableName or from env
func LoadConfiguration(configFileEnvVariableName, defaultConfigFile string) (ConfigStruct, error) {
	var config ConfigStruct

	// env. variable holding name of configuration file
	configFile, specified := os.LookupEnv(configFileEnvVariableName)
	if specified {
		// we need to separate the directory name and filename without
		// extension
		directory, basename := filepath.Split(configFile)
		file := strings.TrimSuffix(basename, filepath.Ext(basename))
		// parse the configuration
		viper.SetConfigName(file)
		viper.AddConfigPath(directory)
	} else {
		log.Info().Str("filename", defaultConfigFile).Msg("Parsing configuration file")
		// parse the configuration
		viper.SetConfigName(defaultConfigFile)
		viper.AddConfigPath(".")
	}

	// try to read the whole configuration
	err := viper.ReadInConfig()
	if _, isNotFoundError := err.(viper.ConfigFileNotFoundError); !specified && isNotFoundError {
		// If config file is not present (which might be correct in
		// some environment) we need to read configuration from
		// environment variables The problem is that Viper is not smart
		// enough to understand the structure of config by itself, so
		// we need to read fake config file
		fakeTomlConfigWriter := new(bytes.Buffer)

		err := toml.NewEncoder(fakeTomlConfigWriter).Encode(config)
		if err != nil {
			return config, err
		}

		fakeTomlConfig := fakeTomlConfigWriter.String()

		viper.SetConfigType("toml")

		err = viper.ReadConfig(strings.NewReader(fakeTomlConfig))
		if err != nil {
			return config, err
		}
	} else if err != nil {
		// error is processed on caller side
		return config, fmt.Errorf("fatal error config file: %s", err)
	}

	// override config from env if there's variable in env
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "__"))

	err = viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if clowder.IsClowderEnabled() {
		// can not use Zerolog at this moment!
		fmt.Println("Clowder is enabled")

		updateConfigFromClowder(&config)
	} else {
		// can not use Zerolog at this moment!
		fmt.Println("Clowder is disabled")
	}

	// everything's should be ok
	return config, nil
}

// updateConfigFromClowder function replaces selected configuration options
// by values provided by Clowder
func updateConfigFromClowder(config *ConfigStruct) {
	// config is loaded by Clowder package when the process starts
	if clowder.LoadedConfig == nil {
		fmt.Println("Clowder config is not loaded")
		return
	}

	if clowder.LoadedConfig.Kafka == nil || len(clowder.LoadedConfig.Kafka.Brokers) == 0 {
		fmt.Println("No Kafka brokers available from Clowder")
	} else {
		addresses := make([]string, 0, len(clowder.LoadedConfig.Kafka.Brokers))
		for _, broker := range clowder.LoadedConfig.Kafka.Brokers {
			if broker.Port != nil {
				addresses = append(addresses, fmt.Sprintf("%s:%d", broker.Hostname, *broker.Port))
			} else {
				addresses = append(addresses, broker.Hostname)
			}
		}
		config.Kafka.Addresses = strings.Join(addresses, ",")

		// SASL settings are taken from the first broker
		broker := clowder.LoadedConfig.Kafka.Brokers[0]
		if broker.SecurityProtocol != nil {
			config.Kafka.SecurityProtocol = *broker.SecurityProtocol
		}
		if broker.Sasl != nil {
			if broker.Sasl.Username != nil {
				config.Kafka.SaslUsername = *broker.Sasl.Username
			}
			if broker.Sasl.Password != nil {
				config.Kafka.SaslPassword = *broker.Sasl.Password
			}
			if broker.Sasl.SaslMechanism != nil {
				config.Kafka.SaslMechanism = *broker.Sasl.SaslMechanism
			}
		}

		// topic name might be mapped by Clowder
		if topicCfg, found := clowder.KafkaTopics[config.Kafka.Topic]; found {
			config.Kafka.Topic = topicCfg.Name
		} else {
			fmt.Printf("Topic %s is not mapped by Clowder\n", config.Kafka.Topic)
		}
	}

	if clowder.LoadedConfig.Database != nil {
		database := clowder.LoadedConfig.Database
		config.Storage.PGDBName = database.Name
		config.Storage.PGHost = database.Hostname
		config.Storage.PGPort = database.Port
		config.Storage.PGUsername = database.Username
		config.Storage.PGPassword = database.Password
		config.Storage.PGParams = clowderDBSSLMode
	}
}

// GetStorageConfiguration returns storage configuration
func GetStorageConfiguration(config *ConfigStruct) StorageConfiguration {
	return config.Storage
}

// GetLoggingConfiguration returns logging configuration
func GetLoggingConfiguration(config *ConfigStruct) logger.LoggingConfiguration {
	return config.Logging
}

// GetCloudWatchConfiguration returns cloudwatch configuration
func GetCloudWatchConfiguration(config *ConfigStruct) logger.CloudWatchConfiguration {
	return config.CloudWatch
}

// GetSentryLoggingConfiguration returns the sentry log configuration
func GetSentryLoggingConfiguration(config *ConfigStruct) logger.SentryLoggingConfiguration {
	return config.Sentry
}

// GetKafkaZerologConfiguration returns the kafkazero log configuration
func GetKafkaZerologConfiguration(config *ConfigStruct) logger.KafkaZerologConfiguration {
	return config.KafkaZerolog
}

// GetKafkaBrokerConfiguration returns kafka broker configuration
func GetKafkaBrokerConfiguration(config *ConfigStruct) KafkaConfiguration {
	return config.Kafka
}

// GetMetricsConfiguration returns metrics configuration
func GetMetricsConfiguration(config *ConfigStruct) MetricsConfiguration {
	return config.Metrics
}

// GetCleanerConfiguration returns cleaner configuration
func GetCleanerConfiguration(config *ConfigStruct) CleanerConfiguration {
	return config.Cleaner
}

// GetCalculatorConfiguration returns configuration of the interactive
// front-end
func GetCalculatorConfiguration(config *ConfigStruct) CalculatorConfiguration {
	return config.Calculator
}
