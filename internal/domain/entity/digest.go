package entity

// DigestItem is one processed article ready for delivery to a chat channel.
type DigestItem struct {
	Article   Article
	Processed ProcessedArticle
	Language  Language
}

// Attribution returns "Source · Language" for message footers.
func (d DigestItem) Attribution() string {
	source := d.Article.Source
	if source == "" {
		source = UnknownSource
	}
	return source + " · " + d.Language.Name()
}
