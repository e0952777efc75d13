package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/push/pushtest"
	"Ripple/internal/pkg/store"
	"Ripple/internal/repository"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

var testNow = time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

type fixture struct {
	store    *store.MemoryStore
	push     *pushtest.Recorder
	handlers *Handlers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore(func() time.Time { return testNow })
	rec := &pushtest.Recorder{}

	userRepo := repository.NewUserRepo(s)
	notes := repository.NewNotificationRepo(s)
	notifier := service.NewNotifier(notes, rec)
	moderator := service.NewModerator(repository.NewReportRepo(s), userRepo, notifier)

	return &fixture{
		store: s,
		push:  rec,
		handlers: NewHandlers(
			userRepo,
			repository.NewPostRepo(s),
			repository.NewPostActionRepo(s),
			repository.NewTagRepo(s),
			notifier,
			moderator,
		),
	}
}

func (f *fixture) put(t *testing.T, col, id string, fields store.Fields) {
	t.Helper()
	if err := f.store.Set(context.Background(), store.Collection(col).Doc(id), fields); err != nil {
		t.Fatalf("seed %s/%s: %v", col, id, err)
	}
}

func (f *fixture) seedUsers(t *testing.T) {
	t.Helper()
	f.put(t, "users", "alice", store.Fields{"displayName": "Alice", "fcmToken": "tok-alice"})
	f.put(t, "users", "bob", store.Fields{"displayName": "Bob"})
	f.put(t, "users", "carol", store.Fields{"displayName": "Carol", "fcmToken": "tok-carol"})
}

func (f *fixture) notifications(t *testing.T, uid string) []*model.Notification {
	t.Helper()
	list, err := store.QueryAs[model.Notification](context.Background(), f.store,
		store.SubCollection(model.Notification{}.CollectionName(), uid))
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func (f *fixture) get(t *testing.T, col, id string, v any) {
	t.Helper()
	snap, err := f.store.Get(context.Background(), store.Collection(col).Doc(id))
	if err != nil {
		t.Fatalf("get %s/%s: %v", col, id, err)
	}
	if err = snap.DataTo(v); err != nil {
		t.Fatal(err)
	}
}

func event(t *testing.T, col string, op trigger.Op, id string, data any) *trigger.Event {
	t.Helper()
	body, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return &trigger.Event{Collection: col, Op: op, DocID: id, Data: body}
}

func TestRegister(t *testing.T) {
	d := trigger.NewDispatcher(nil)
	newFixture(t).handlers.Register(d)

	tests := []struct {
		col  string
		op   trigger.Op
		want []string
	}{
		{"likes", trigger.INSERT, []string{"onLiked"}},
		{"comments", trigger.INSERT, []string{"onCommented"}},
		{"followRequests", trigger.INSERT, []string{"onFollowRequested"}},
		{"groups", trigger.UPDATE, []string{"onGroupMembersChanged"}},
		{"posts", trigger.INSERT, []string{"onPostCreatedStats", "onPostCreatedTags"}},
		{"posts", trigger.DELETE, []string{"onPostDeleted"}},
		{"reports", trigger.INSERT, []string{"onReportFiled"}},
		{"posts", trigger.UPDATE, nil},
	}
	for _, tt := range tests {
		routes := d.Routes(tt.col, tt.op)
		if len(routes) != len(tt.want) {
			t.Errorf("%s/%s: %d routes, want %d", tt.col, tt.op, len(routes), len(tt.want))
			continue
		}
		for i, r := range routes {
			if r.Name != tt.want[i] {
				t.Errorf("%s/%s route %d = %s, want %s", tt.col, tt.op, i, r.Name, tt.want[i])
			}
		}
	}
}

func TestOnLiked(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice"})

	err := f.handlers.OnLiked(context.Background(), event(t, "likes", trigger.INSERT, "l1",
		model.Like{PostID: "p1", UserID: "bob"}))
	if err != nil {
		t.Fatal(err)
	}

	list := f.notifications(t, "alice")
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	if n := list[0]; n.Type != model.NotificationLike || n.Message != "Bob liked your post" || n.PostID != "p1" || n.FromUserID != "bob" {
		t.Errorf("notification = %+v", n)
	}
	sent := f.push.Sent()
	if len(sent) != 1 || sent[0].Token != "tok-alice" || sent[0].Message.Title != "New Like" {
		t.Errorf("pushes = %+v", sent)
	}
}

func TestOnLiked_SelfLikeIsSilent(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice"})

	err := f.handlers.OnLiked(context.Background(), event(t, "likes", trigger.INSERT, "l1",
		model.Like{PostID: "p1", UserID: "alice"}))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.notifications(t, "alice")) != 0 || len(f.push.Sent()) != 0 {
		t.Error("self like must not notify")
	}
}

func TestOnLiked_MissingReferencesAreBenign(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice"})
	f.put(t, "posts", "orphan", store.Fields{"userId": "ghost"})

	likes := []model.Like{
		{PostID: "deleted", UserID: "bob"},
		{PostID: "orphan", UserID: "bob"},
		{PostID: "p1", UserID: "ghost"},
	}
	for _, l := range likes {
		if err := f.handlers.OnLiked(context.Background(), event(t, "likes", trigger.INSERT, "l", l)); err != nil {
			t.Errorf("like %+v: %v", l, err)
		}
	}
	if len(f.notifications(t, "alice")) != 0 || len(f.push.Sent()) != 0 {
		t.Error("missing references must not produce side effects")
	}
}

func TestOnCommented(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice", "commentsCount": 2})

	long := strings.Repeat("a", 60)
	err := f.handlers.OnCommented(context.Background(), event(t, "comments", trigger.INSERT, "c1",
		model.Comment{PostID: "p1", UserID: "bob", Content: long}))
	if err != nil {
		t.Fatal(err)
	}

	var post model.Post
	f.get(t, "posts", "p1", &post)
	if post.CommentsCount != 3 {
		t.Errorf("commentsCount = %d, want 3", post.CommentsCount)
	}

	list := f.notifications(t, "alice")
	if len(list) != 1 {
		t.Fatalf("got %d notifications", len(list))
	}
	n := list[0]
	if n.Message != "Bob commented on your post" || n.CommentID != "c1" || n.PostID != "p1" || n.FromUserID != "bob" {
		t.Errorf("notification = %+v", n)
	}

	sent := f.push.Sent()
	if len(sent) != 1 {
		t.Fatalf("pushes = %d", len(sent))
	}
	want := "Bob commented: " + strings.Repeat("a", 50) + "..."
	if sent[0].Message.Body != want || sent[0].Message.Title != "New Comment" {
		t.Errorf("push = %+v", sent[0].Message)
	}
}

func TestOnCommented_SelfCommentCountsButIsSilent(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice"})

	err := f.handlers.OnCommented(context.Background(), event(t, "comments", trigger.INSERT, "c1",
		model.Comment{PostID: "p1", UserID: "alice", Content: "hi"}))
	if err != nil {
		t.Fatal(err)
	}

	var post model.Post
	f.get(t, "posts", "p1", &post)
	if post.CommentsCount != 1 {
		t.Errorf("commentsCount = %d, want 1", post.CommentsCount)
	}
	if len(f.notifications(t, "alice")) != 0 {
		t.Error("self comment must not notify")
	}
}

func TestOnCommented_CounterSurvivesNotifyFailure(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "posts", "p1", store.Fields{"userId": "alice"})
	f.store.FailWith(func(op string, _ store.CollectionRef) error {
		if op == "create" {
			return errors.New("quota exceeded")
		}
		return nil
	})

	err := f.handlers.OnCommented(context.Background(), event(t, "comments", trigger.INSERT, "c1",
		model.Comment{PostID: "p1", UserID: "bob", Content: "hi"}))
	if err == nil {
		t.Fatal("expected notification error")
	}

	var post model.Post
	f.get(t, "posts", "p1", &post)
	if post.CommentsCount != 1 {
		t.Errorf("commentsCount = %d, want 1", post.CommentsCount)
	}
}

func TestOnCommented_MissingReferencesAreBenign(t *testing.T) {
	tests := []struct {
		name    string
		post    store.Fields
		comment model.Comment
	}{
		{"missing post", nil, model.Comment{PostID: "p1", UserID: "bob"}},
		{"missing owner", store.Fields{"userId": "ghost"}, model.Comment{PostID: "p1", UserID: "bob"}},
		{"missing commenter", store.Fields{"userId": "alice"}, model.Comment{PostID: "p1", UserID: "ghost"}},
		{"missing self commenter", store.Fields{"userId": "ghost"}, model.Comment{PostID: "p1", UserID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedUsers(t)
			if tt.post != nil {
				f.put(t, "posts", "p1", tt.post)
			}

			tt.comment.Content = "hi"
			if err := f.handlers.OnCommented(context.Background(), event(t, "comments", trigger.INSERT, "c1", tt.comment)); err != nil {
				t.Fatalf("missing reference should be benign: %v", err)
			}

			if tt.post != nil {
				var post model.Post
				f.get(t, "posts", "p1", &post)
				if post.CommentsCount != 0 {
					t.Errorf("commentsCount = %d, want 0", post.CommentsCount)
				}
			}
			if n := len(f.notifications(t, "alice")); n != 0 {
				t.Errorf("got %d notifications, want 0", n)
			}
			if len(f.push.Sent()) != 0 {
				t.Error("no push expected")
			}
		})
	}
}

func TestOnFollowRequested(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)

	err := f.handlers.OnFollowRequested(context.Background(), event(t, "followRequests", trigger.INSERT, "fr1",
		model.FollowRequest{FromUserID: "bob", ToUserID: "carol"}))
	if err != nil {
		t.Fatal(err)
	}

	list := f.notifications(t, "carol")
	if len(list) != 1 {
		t.Fatalf("got %d notifications", len(list))
	}
	if n := list[0]; n.Message != "Bob wants to follow you" || n.RequestID != "fr1" || n.FromUserID != "bob" || n.Type != model.NotificationFollowRequest {
		t.Errorf("notification = %+v", n)
	}
	if sent := f.push.Sent(); len(sent) != 1 || sent[0].Message.Title != "New Follow Request" {
		t.Errorf("pushes = %+v", sent)
	}
}

func TestOnGroupMembersChanged(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)

	before, _ := json.Marshal(model.Group{Name: "Hikers", Members: []string{"alice"}})
	evt := event(t, "groups", trigger.UPDATE, "g1",
		model.Group{Name: "Hikers", Members: []string{"alice", "bob", "ghost", "carol", "bob"}})
	evt.Before = before

	if err := f.handlers.OnGroupMembersChanged(context.Background(), evt); err != nil {
		t.Fatal(err)
	}

	if len(f.notifications(t, "alice")) != 0 {
		t.Error("existing member must not be notified")
	}
	for _, uid := range []string{"bob", "carol"} {
		list := f.notifications(t, uid)
		if len(list) != 1 {
			t.Fatalf("%s got %d notifications, want 1", uid, len(list))
		}
		if n := list[0]; n.Message != `You were added to the group "Hikers"` || n.GroupID != "g1" || n.Type != model.NotificationGroupInvite {
			t.Errorf("%s notification = %+v", uid, n)
		}
	}
	sent := f.push.Sent()
	if len(sent) != 1 || sent[0].Token != "tok-carol" || sent[0].Message.Body != `You were added to "Hikers"` {
		t.Errorf("pushes = %+v", sent)
	}
}

func TestOnGroupMembersChanged_NoNewMembers(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)

	before, _ := json.Marshal(model.Group{Name: "Hikers", Members: []string{"alice", "bob"}})
	evt := event(t, "groups", trigger.UPDATE, "g1", model.Group{Name: "Renamed", Members: []string{"bob"}})
	evt.Before = before

	if err := f.handlers.OnGroupMembersChanged(context.Background(), evt); err != nil {
		t.Fatal(err)
	}
	if len(f.notifications(t, "alice"))+len(f.notifications(t, "bob")) != 0 {
		t.Error("no notification expected")
	}
}

func TestOnGroupMembersChanged_WithoutBeforeImageIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)

	evt := event(t, "groups", trigger.UPDATE, "g1",
		model.Group{Name: "Renamed", Members: []string{"alice", "bob", "carol"}})

	if err := f.handlers.OnGroupMembersChanged(context.Background(), evt); err != nil {
		t.Fatal(err)
	}
	for _, uid := range []string{"alice", "bob", "carol"} {
		if n := len(f.notifications(t, uid)); n != 0 {
			t.Errorf("%s got %d notifications, want 0", uid, n)
		}
	}
	if len(f.push.Sent()) != 0 {
		t.Errorf("pushes = %+v", f.push.Sent())
	}
}

func TestOnPostCreatedStats(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "users", "dave", store.Fields{"displayName": "Dave", "postsCount": 4})

	for _, uid := range []string{"dave", "dave", "alice"} {
		if err := f.handlers.OnPostCreatedStats(context.Background(), event(t, "posts", trigger.INSERT, "p", model.Post{UserID: uid})); err != nil {
			t.Fatal(err)
		}
	}

	var dave, alice model.User
	f.get(t, "users", "dave", &dave)
	f.get(t, "users", "alice", &alice)
	if dave.PostsCount != 6 || alice.PostsCount != 1 {
		t.Errorf("postsCount dave=%d alice=%d", dave.PostsCount, alice.PostsCount)
	}

	if err := f.handlers.OnPostCreatedStats(context.Background(), event(t, "posts", trigger.INSERT, "p", model.Post{UserID: "ghost"})); err != nil {
		t.Errorf("missing owner should be benign: %v", err)
	}
}

func TestOnPostCreatedTags(t *testing.T) {
	f := newFixture(t)
	f.put(t, "tags", "art", store.Fields{"name": "art", "postCount": 3, "lastUsed": testNow.AddDate(0, -1, 0)})

	err := f.handlers.OnPostCreatedTags(context.Background(), event(t, "posts", trigger.INSERT, "p1",
		model.Post{UserID: "alice", Tags: []string{"Art", " art", "TRAVEL", "  "}}))
	if err != nil {
		t.Fatal(err)
	}

	var art, travel model.Tag
	f.get(t, "tags", "art", &art)
	f.get(t, "tags", "travel", &travel)
	if art.PostCount != 5 || travel.PostCount != 1 {
		t.Errorf("postCount art=%d travel=%d", art.PostCount, travel.PostCount)
	}
	if travel.Name != "travel" || !travel.LastUsed.Equal(testNow) || !art.LastUsed.Equal(testNow) {
		t.Errorf("tags = %+v %+v", art, travel)
	}
	if f.store.Len(store.Collection("tags")) != 2 {
		t.Errorf("tags = %d, want 2", f.store.Len(store.Collection("tags")))
	}
}

func TestOnPostCreatedTags_NoTags(t *testing.T) {
	f := newFixture(t)
	if err := f.handlers.OnPostCreatedTags(context.Background(), event(t, "posts", trigger.INSERT, "p1", model.Post{UserID: "alice"})); err != nil {
		t.Fatal(err)
	}
	if f.store.Len(store.Collection("tags")) != 0 {
		t.Error("no tag expected")
	}
}

func TestOnPostDeleted(t *testing.T) {
	f := newFixture(t)
	f.put(t, "likes", "l1", store.Fields{"postId": "p1", "userId": "bob"})
	f.put(t, "likes", "l2", store.Fields{"postId": "p1", "userId": "carol"})
	f.put(t, "likes", "l3", store.Fields{"postId": "p2", "userId": "bob"})
	f.put(t, "comments", "c1", store.Fields{"postId": "p1", "userId": "bob"})
	f.put(t, "comments", "c2", store.Fields{"postId": "p2", "userId": "bob"})

	if err := f.handlers.OnPostDeleted(context.Background(), event(t, "posts", trigger.DELETE, "p1", model.Post{UserID: "alice"})); err != nil {
		t.Fatal(err)
	}

	for _, ref := range []store.DocRef{
		store.Collection("likes").Doc("l1"),
		store.Collection("likes").Doc("l2"),
		store.Collection("comments").Doc("c1"),
	} {
		if _, err := f.store.Get(context.Background(), ref); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s should be deleted", ref)
		}
	}
	if f.store.Len(store.Collection("likes")) != 1 || f.store.Len(store.Collection("comments")) != 1 {
		t.Error("records of other posts must be untouched")
	}

	// 没有关联数据时不提交批次
	f.store.FailWith(func(op string, _ store.CollectionRef) error {
		if op == "commit" {
			return errors.New("unexpected commit")
		}
		return nil
	})
	if err := f.handlers.OnPostDeleted(context.Background(), event(t, "posts", trigger.DELETE, "p9", model.Post{})); err != nil {
		t.Errorf("empty cascade should not commit: %v", err)
	}
}

func TestOnPostDeleted_BatchesAreIndependent(t *testing.T) {
	f := newFixture(t)
	f.put(t, "likes", "l1", store.Fields{"postId": "p1"})
	f.put(t, "comments", "c1", store.Fields{"postId": "p1"})
	f.store.FailWith(func(op string, col store.CollectionRef) error {
		if op == "commit" && col.Name == "likes" {
			return errors.New("boom")
		}
		return nil
	})

	if err := f.handlers.OnPostDeleted(context.Background(), event(t, "posts", trigger.DELETE, "p1", model.Post{})); err == nil {
		t.Fatal("expected likes batch error")
	}
	if f.store.Len(store.Collection("comments")) != 0 {
		t.Error("comments batch should still commit")
	}
	if f.store.Len(store.Collection("likes")) != 1 {
		t.Error("failed likes batch must not apply")
	}
}

func TestOnReportFiled(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	f.put(t, "users", "admin", store.Fields{"displayName": "Root", "role": "admin"})
	f.put(t, "posts", "p1", store.Fields{"userId": "alice", "reportCount": 3})

	report := func() *trigger.Event {
		return event(t, "reports", trigger.INSERT, "r", model.Report{ReportType: "post", ReportedID: "p1"})
	}

	for i := 0; i < 4; i++ {
		if err := f.handlers.OnReportFiled(context.Background(), report()); err != nil {
			t.Fatal(err)
		}
	}

	var post model.Post
	f.get(t, "posts", "p1", &post)
	if post.ReportCount != 7 || !post.IsHidden {
		t.Errorf("post moderation = %+v", post.Moderation)
	}
	if n := len(f.notifications(t, "admin")); n != 1 {
		t.Errorf("admin got %d notifications, want 1", n)
	}

	if err := f.handlers.OnReportFiled(context.Background(), event(t, "reports", trigger.INSERT, "r",
		model.Report{ReportType: "video", ReportedID: "p1"})); err != nil {
		t.Errorf("unknown type should be a no-op: %v", err)
	}
}

func TestDispatch_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.seedUsers(t)
	d := trigger.NewDispatcher(nil)
	f.handlers.Register(d)

	d.Dispatch(context.Background(), event(t, "posts", trigger.INSERT, "p1",
		model.Post{UserID: "alice", Tags: []string{"Go"}}))

	var alice model.User
	f.get(t, "users", "alice", &alice)
	var tag model.Tag
	f.get(t, "tags", "go", &tag)
	if alice.PostsCount != 1 || tag.PostCount != 1 {
		t.Errorf("postsCount=%d tag=%d", alice.PostsCount, tag.PostCount)
	}
}
