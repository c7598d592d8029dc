package v1

type ConvertJob struct {
	Kind     string         `yaml:"kind" json:"kind" validate:"required,eq=ConvertJob"`
	Metadata Metadata       `yaml:"metadata" json:"metadata" validate:"required"`
	Spec     ConvertJobSpec `yaml:"spec" json:"spec" validate:"required"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type ConvertJobSpec struct {
	// Gateway is the remote conversion service every item is sent to.
	Gateway GatewaySpec `yaml:"gateway" json:"gateway" validate:"required"`

	// Inputs are glob patterns naming the files to convert, processed in
	// the order they expand to.
	Inputs []string `yaml:"inputs" json:"inputs" validate:"required,min=1,dive,required"`

	// Format is the target output format.
	Format string `yaml:"format" json:"format" validate:"required,oneof=png jpg jpeg webp gif bmp tiff"`

	// Quality applies to lossy formats (1-100, default 85).
	Quality *int `yaml:"quality,omitempty" json:"quality,omitempty" validate:"omitempty,min=1,max=100"`

	// Output configures where the archive goes (default: stdout).
	Output *OutputSpec `yaml:"output,omitempty" json:"output,omitempty"`
}

type GatewaySpec struct {
	BaseURL string            `yaml:"base_url" json:"base_url" validate:"required,url"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Auth    *AuthSpec         `yaml:"auth,omitempty" json:"auth,omitempty"`

	// Timeout is the per-item request timeout in seconds.
	Timeout  *int `yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"omitempty,min=1"`
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`
}

type AuthSpec struct {
	Basic *BasicAuthSpec `yaml:"basic,omitempty" json:"basic,omitempty"`
}

type BasicAuthSpec struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Encoded  string `yaml:"encoded,omitempty" json:"encoded,omitempty"`
}

// OutputSpec configures how the archive is delivered.
type OutputSpec struct {
	// ArchiveName overrides the delivered archive filename.
	ArchiveName string `yaml:"archive_name,omitempty" json:"archive_name,omitempty"`

	// Destination configures where the archive is written (default: stdout).
	Destination *DestinationSpec `yaml:"destination,omitempty" json:"destination,omitempty"`
}

// DestinationSpec configures the output destination (one of the fields
// should be set).
type DestinationSpec struct {
	Stdout *StdoutSpec `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Folder *FolderSpec `yaml:"folder,omitempty" json:"folder,omitempty"`
	S3     *S3Spec     `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// StdoutSpec configures stdout output (no options currently).
type StdoutSpec struct{}

// FolderSpec configures folder output.
type FolderSpec struct {
	Path string `yaml:"path" json:"path" validate:"required"`
}

// S3Spec configures S3-compatible object storage output.
type S3Spec struct {
	Bucket          string `yaml:"bucket" json:"bucket" validate:"required"`
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Prefix          string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
	ForcePathStyle  bool   `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
}
