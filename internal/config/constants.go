package config

// Common port numbers used throughout the application.
const (
	// SSHPort is the standard SSH port opened on the security group.
	SSHPort int32 = 22

	// WebUIPort is the default Airflow webserver port.
	WebUIPort int32 = 8080

	// MetadataDBPort is the default Postgres port for the pipeline
	// metadata database.
	MetadataDBPort = 5432
)
