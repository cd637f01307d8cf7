package kafka

const (
	// TopicJobFTP is the name of the Kafka topic the transfer jobs are consumed from.
	TopicJobFTP = "job_ftp"
	// TopicJobFTPCompleted is the name of the Kafka topic for completed transfer events.
	TopicJobFTPCompleted = "job_ftp_completed"
	// TopicJobFTPError is the name of the Kafka topic for failed transfer events.
	TopicJobFTPError = "job_ftp_error"
)
