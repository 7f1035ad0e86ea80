// Package content turns a raw job update into the fields used by reels and captions.
package content

// JobPosting holds the labeled fields found in a structured job update
type JobPosting struct {
	Title            string   `json:"title"`
	Organization     string   `json:"organization"`
	PostName         string   `json:"post_name"`
	Vacancies        string   `json:"vacancies"`
	Qualification    string   `json:"qualification"`
	LastDate         string   `json:"last_date"`
	NotificationLink string   `json:"notification_link"`
	ApplyLink        string   `json:"apply_link"`
	SocialLinks      []string `json:"social_links"`
}

// Content is the generated promotional content of a draft
type Content struct {
	Title    string     `json:"title"`
	Hook     string     `json:"hook"`
	CTA      string     `json:"cta"`
	Hashtags string     `json:"hashtags"`
	Points   []string   `json:"points,omitempty"`
	Script   string     `json:"script,omitempty"`
	Job      JobPosting `json:"job"`
	RawText  string     `json:"raw_text"`
}

// Overrides lists every field an edit may replace. Nil or empty values keep the current field.
type Overrides struct {
	Title    *string  `json:"title"`
	Hook     *string  `json:"hook"`
	CTA      *string  `json:"cta"`
	Hashtags *string  `json:"hashtags"`
	Script   *string  `json:"script"`
	Points   []string `json:"points"`

	Organization     *string `json:"organization"`
	PostName         *string `json:"post_name"`
	Vacancies        *string `json:"vacancies"`
	Qualification    *string `json:"qualification"`
	LastDate         *string `json:"last_date"`
	NotificationLink *string `json:"notification_link"`
	ApplyLink        *string `json:"apply_link"`
}

// Merge returns a copy of c with the overrides applied and the names of the fields that changed
func (c Content) Merge(o Overrides) (Content, []string) {
	out := c.Clone()
	var applied []string

	set := func(name string, dst *string, v *string) {
		if v == nil || *v == "" {
			return
		}
		*dst = *v
		applied = append(applied, name)
	}

	set("title", &out.Title, o.Title)
	set("hook", &out.Hook, o.Hook)
	set("cta", &out.CTA, o.CTA)
	set("hashtags", &out.Hashtags, o.Hashtags)
	set("script", &out.Script, o.Script)
	if len(o.Points) > 0 {
		out.Points = append([]string(nil), o.Points...)
		applied = append(applied, "points")
	}

	set("organization", &out.Job.Organization, o.Organization)
	set("post_name", &out.Job.PostName, o.PostName)
	set("vacancies", &out.Job.Vacancies, o.Vacancies)
	set("qualification", &out.Job.Qualification, o.Qualification)
	set("last_date", &out.Job.LastDate, o.LastDate)
	set("notification_link", &out.Job.NotificationLink, o.NotificationLink)
	set("apply_link", &out.Job.ApplyLink, o.ApplyLink)

	return out, applied
}

// Clone returns a deep copy
func (c Content) Clone() Content {
	out := c
	if c.Points != nil {
		out.Points = append([]string(nil), c.Points...)
	}
	if c.Job.SocialLinks != nil {
		out.Job.SocialLinks = append([]string(nil), c.Job.SocialLinks...)
	}
	return out
}
