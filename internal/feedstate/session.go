package feedstate

import (
	"context"
	"errors"
	"sync"

	commentmodels "github.com/socialfeed/api/comments/models"
	"github.com/socialfeed/api/internal/pkg/log"
	"github.com/socialfeed/api/internal/types"
	postmodels "github.com/socialfeed/api/posts/models"
	"github.com/socialfeed/api/storage/provider"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNoPostOpen  = errors.New("no post is open")
	ErrNotReplying = errors.New("no comment selected to reply to")
)

// Snapshot is a consistent copy of a Session's screen state.
type Snapshot struct {
	Auth        AuthState
	Feed        FetchState[[]postmodels.Post]
	CurrentPost FetchState[postmodels.Post]
	Comments    FetchState[[]commentmodels.Comment]
	Replies     map[string][]commentmodels.Comment
	ReplyingTo  *commentmodels.Comment
}

// Session holds the feed and thread screens of one signed-in client. Backend
// calls run without the lock held; results are merged under it.
type Session struct {
	backend Backend

	mu          sync.Mutex
	auth        AuthState
	feed        FetchState[[]postmodels.Post]
	currentPost FetchState[postmodels.Post]
	openPostID  string
	comments    FetchState[[]commentmodels.Comment]
	replies     map[string][]commentmodels.Comment
	replyingTo  *commentmodels.Comment
}

func NewSession(backend Backend) *Session {
	return &Session{
		backend:     backend,
		feed:        Idle[[]postmodels.Post](),
		currentPost: Idle[postmodels.Post](),
		comments:    Idle[[]commentmodels.Comment](),
		replies:     map[string][]commentmodels.Comment{},
	}
}

// SetAuth replaces the auth state. Signing out clears every screen.
func (s *Session) SetAuth(auth AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
	if auth.Kind == Unauthenticated {
		s.feed = Idle[[]postmodels.Post]()
		s.clearThreadLocked()
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	replies := make(map[string][]commentmodels.Comment, len(s.replies))
	for k, v := range s.replies {
		replies[k] = v
	}
	var replyingTo *commentmodels.Comment
	if s.replyingTo != nil {
		c := *s.replyingTo
		replyingTo = &c
	}
	return Snapshot{
		Auth:        s.auth,
		Feed:        s.feed,
		CurrentPost: s.currentPost,
		Comments:    s.comments,
		Replies:     replies,
		ReplyingTo:  replyingTo,
	}
}

func (s *Session) viewer() types.UserContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Viewer()
}

func (s *Session) writer() (types.UserContext, error) {
	viewer := s.viewer()
	if viewer.IsAnonymous() {
		return viewer, ErrNotSignedIn
	}
	return viewer, nil
}

// LoadFeed fetches the feed, newest first.
func (s *Session) LoadFeed(ctx context.Context) error {
	viewer := s.viewer()
	s.mu.Lock()
	s.feed = Loading[[]postmodels.Post]()
	s.mu.Unlock()

	posts, err := s.backend.ListFeed(ctx, viewer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.feed = Failure[[]postmodels.Post](messageOr(err, "Error loading posts"))
		return err
	}
	s.feed = Success(posts)
	return nil
}

// CreatePost publishes a post and reloads the feed.
func (s *Session) CreatePost(ctx context.Context, text string, image *provider.Upload) error {
	viewer, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := s.backend.CreatePost(ctx, viewer, text, image); err != nil {
		s.mu.Lock()
		s.feed = Failure[[]postmodels.Post](messageOr(err, "Failed to create post"))
		s.mu.Unlock()
		return err
	}
	return s.LoadFeed(ctx)
}

// TogglePostLike toggles the viewer's like and patches the feed and the open
// post in place.
func (s *Session) TogglePostLike(ctx context.Context, postID string) error {
	viewer, err := s.writer()
	if err != nil {
		return err
	}
	liked, err := s.backend.TogglePostLike(ctx, viewer, postID)
	if err != nil {
		log.Error("Error toggling like on post %s: %v", postID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if posts, ok := s.feed.Payload(); ok {
		s.feed = Success(MergeLikeResult(posts, postID, liked))
	}
	if post, ok := s.currentPost.Payload(); ok {
		s.currentPost = Success(MergeLikeResult([]postmodels.Post{post}, postID, liked)[0])
	}
	return nil
}

// OpenPost loads a post and its top-level comments.
func (s *Session) OpenPost(ctx context.Context, postID string) error {
	viewer := s.viewer()
	s.mu.Lock()
	s.clearThreadLocked()
	s.openPostID = postID
	s.currentPost = Loading[postmodels.Post]()
	s.mu.Unlock()

	post, err := s.backend.GetPost(ctx, viewer, postID)

	s.mu.Lock()
	if s.openPostID != postID {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.currentPost = Failure[postmodels.Post](messageOr(err, "Error loading post"))
		s.mu.Unlock()
		return err
	}
	s.currentPost = Success(post)
	s.mu.Unlock()

	return s.loadComments(ctx, viewer, postID)
}

// ClosePost drops the thread screen.
func (s *Session) ClosePost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearThreadLocked()
}

func (s *Session) clearThreadLocked() {
	s.openPostID = ""
	s.currentPost = Idle[postmodels.Post]()
	s.comments = Idle[[]commentmodels.Comment]()
	s.replies = map[string][]commentmodels.Comment{}
	s.replyingTo = nil
}

func (s *Session) loadComments(ctx context.Context, viewer types.UserContext, postID string) error {
	s.mu.Lock()
	s.comments = Loading[[]commentmodels.Comment]()
	s.mu.Unlock()

	comments, err := s.backend.ListComments(ctx, viewer, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openPostID != postID {
		return nil
	}
	if err != nil {
		s.comments = Failure[[]commentmodels.Comment](messageOr(err, "Error loading comments"))
		return err
	}
	s.comments = Success(comments)
	return nil
}

func (s *Session) openPost() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openPostID == "" {
		return "", ErrNoPostOpen
	}
	return s.openPostID, nil
}

// AddComment comments on the open post and reloads its comments.
func (s *Session) AddComment(ctx context.Context, text string, image *provider.Upload) error {
	viewer, err := s.writer()
	if err != nil {
		return err
	}
	postID, err := s.openPost()
	if err != nil {
		return err
	}
	if _, err := s.backend.AddComment(ctx, viewer, postID, text, image); err != nil {
		s.mu.Lock()
		s.comments = Failure[[]commentmodels.Comment](messageOr(err, "Failed to add comment"))
		s.mu.Unlock()
		return err
	}
	return s.loadComments(ctx, viewer, postID)
}

// ToggleCommentLike toggles the viewer's like on a comment or reply and
// patches every list that shows it.
func (s *Session) ToggleCommentLike(ctx context.Context, commentID string) error {
	viewer, err := s.writer()
	if err != nil {
		return err
	}
	liked, err := s.backend.ToggleCommentLike(ctx, viewer, commentID)
	if err != nil {
		log.Error("Error toggling like on comment %s: %v", commentID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if comments, ok := s.comments.Payload(); ok {
		s.comments = Success(MergeLikeResult(comments, commentID, liked))
	}
	s.replies = MergeLikeResultGrouped(s.replies, commentID, liked)
	return nil
}

// LoadReplies fetches the replies of a top-level comment.
func (s *Session) LoadReplies(ctx context.Context, parentID string) error {
	replies, err := s.backend.ListReplies(ctx, s.viewer(), parentID)
	if err != nil {
		log.Error("Error loading replies for %s: %v", parentID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string][]commentmodels.Comment, len(s.replies)+1)
	for k, v := range s.replies {
		next[k] = v
	}
	next[parentID] = replies
	s.replies = next
	return nil
}

// SetReplyingTo selects the comment the next reply answers.
func (s *Session) SetReplyingTo(comment commentmodels.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyingTo = &comment
}

func (s *Session) CancelReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyingTo = nil
}

// AddReply answers the selected comment, bumps its reply count in the
// comments list and appends the reply to its reply list.
func (s *Session) AddReply(ctx context.Context, text string, image *provider.Upload) error {
	viewer, err := s.writer()
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.replyingTo == nil {
		s.mu.Unlock()
		return ErrNotReplying
	}
	parentID := s.replyingTo.ID
	s.mu.Unlock()

	reply, err := s.backend.AddReply(ctx, viewer, parentID, text, image)
	if err != nil {
		log.Error("Error adding reply to %s: %v", parentID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if comments, ok := s.comments.Payload(); ok {
		s.comments = Success(MergeReplyAdded(comments, parentID))
	}
	s.replies = AppendReply(s.replies, parentID, reply)
	s.replyingTo = nil
	return nil
}

func messageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
