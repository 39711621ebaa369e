package mailchimp

// Campaign is one sent newsletter issue as exposed to the site.
// Timestamps stay in the upstream string form; SendTime is empty for
// campaigns that were never sent.
type Campaign struct {
	ID             string `json:"id"`
	WebID          int    `json:"web_id"`
	Type           string `json:"type"`
	CreateTime     string `json:"create_time"`
	ArchiveURL     string `json:"archive_url"`
	Status         string `json:"status"`
	EmailsSent     int    `json:"emails_sent"`
	SendTime       string `json:"send_time"`
	ContentUpdated string `json:"content_updated"`
	SubjectLine    string `json:"subject_line"`
	Title          string `json:"title"`
	FromName       string `json:"from_name"`
	ReplyTo        string `json:"reply_to"`
}

// SubscribeResult reports the outcome of a list subscription attempt.
// Upstream failures are carried here as values, never as Go errors.
type SubscribeResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// campaignsResponse mirrors GET /campaigns.
type campaignsResponse struct {
	Campaigns []apiCampaign `json:"campaigns"`
}

type apiCampaign struct {
	ID             string `json:"id"`
	WebID          int    `json:"web_id"`
	Type           string `json:"type"`
	CreateTime     string `json:"create_time"`
	ArchiveURL     string `json:"archive_url"`
	Status         string `json:"status"`
	EmailsSent     int    `json:"emails_sent"`
	SendTime       string `json:"send_time"`
	ContentUpdated string `json:"content_updated"`
	Settings       struct {
		SubjectLine string `json:"subject_line"`
		Title       string `json:"title"`
		FromName    string `json:"from_name"`
		ReplyTo     string `json:"reply_to"`
	} `json:"settings"`
}

// contentResponse mirrors GET /campaigns/{id}/content.
type contentResponse struct {
	HTML string `json:"html"`
}

// memberRequest mirrors POST /lists/{id}/members.
type memberRequest struct {
	EmailAddress string      `json:"email_address"`
	Status       string      `json:"status"`
	MergeFields  mergeFields `json:"merge_fields"`
}

type mergeFields struct {
	FirstName string `json:"FNAME"`
	LastName  string `json:"LNAME"`
}
