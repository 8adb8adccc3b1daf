//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestAddComment() {
	given, when, then := s.gherkin()

	given().
		anExistingUser()

	when().
		anAddCommentRequestIsIssued()

	then().
		theAddCommentResponseContainsAValidComment().
		theUserCommentsContainTheComment().
		theCommentListingContainsTheCommentWithItsAuthor().
		anEventForTheCommentCreationWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestEditComment() {
	given, when, then := s.gherkin()

	given().
		anExistingUser().
		anExistingComment()

	when().
		theCommentGetsEdited()

	then().
		theEditResponseReflectsTheEditOperation().
		theUserCommentsContainTheEditedComment().
		anEventForTheCommentEditWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestReplyComment() {
	given, when, then := s.gherkin()

	given().
		anExistingUser().
		anExistingComment()

	when().
		aReplyRequestIsIssued()

	then().
		theRepliesOfTheCommentContainTheReply().
		theCommentListingDoesNotContainTheReply()
}

func (s *ComponentTestSuite) TestInvalidComment() {
	given, when, then := s.gherkin()

	given().
		anExistingUser()

	when().
		anAddCommentRequestWithABlankCommentIsIssued()

	then().
		theRequestIsRejectedAsAnInvalidModel().
		theUserHasNoComments()
}
