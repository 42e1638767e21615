package models

// SubmissionFields is the exported submission schema, in export order.
var SubmissionFields = []string{
	"id", "title", "author", "subreddit", "created_utc", "selftext", "url",
	"permalink", "num_comments", "score", "over_18", "spoiler", "locked", "stickied",
}

// CommentFields is the exported comment schema, in export order.
var CommentFields = []string{
	"id", "author", "subreddit", "created_utc", "body", "score",
	"parent_id", "link_id", "permalink", "is_submitter",
}
