package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
	KafkaDialTimeout  = 5 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	ShutdownTimeout    = 5 * time.Second
)

const (
	DefaultInputTopic  = "NativeCmsPublicationEvents"
	DefaultOutputTopic = "CmsPublicationEvents"
)

const (
	ServiceName = "image-mapper"
)

const (
	DefaultIdentifierAuthority = "http://api.ft.com/system/FTCOM-METHODE"
	EnvelopeDestination        = "methode-image-model-transformer"
)

const (
	ContentTypeImage = "Image"
)
