package service

import (
	"context"
	"testing"

	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampRecommendLimit(t *testing.T) {
	assert.Equal(t, 10, ClampRecommendLimit(0))
	assert.Equal(t, 10, ClampRecommendLimit(-5))
	assert.Equal(t, 1, ClampRecommendLimit(1))
	assert.Equal(t, 50, ClampRecommendLimit(200))
	assert.Equal(t, 25, ClampRecommendLimit(25))
}

func TestTrendingExcludesViewerFavorites(t *testing.T) {
	db := newTestDB(t)
	viewer := seedUser(t, db, "viewer")
	fanA := seedUser(t, db, "fan-a")
	fanB := seedUser(t, db, "fan-b")

	hot := seedServer(t, db, &model.Server{Name: "hot", Developer: "d"})
	warm := seedServer(t, db, &model.Server{Name: "warm", Developer: "d"})
	seedServer(t, db, &model.Server{Name: "cold", Developer: "d"})

	for _, u := range []*model.User{viewer, fanA, fanB} {
		require.NoError(t, db.Create(&model.UserFavoriteServer{UserID: u.ID, ServerID: hot.ID}).Error)
	}
	require.NoError(t, db.Create(&model.UserFavoriteServer{UserID: fanA.ID, ServerID: warm.ID}).Error)

	rec := NewRecommendationService(db)

	anon, err := rec.Trending(context.Background(), "", 10)
	require.NoError(t, err)
	require.Equal(t, 3, anon.TotalFound)
	assert.Equal(t, "hot", anon.Servers[0].Name)
	assert.Equal(t, "Most favorited servers recently", anon.Reason)

	// The viewer already favorited "hot", so it must not come back.
	personal, err := rec.Trending(context.Background(), viewer.ID, 10)
	require.NoError(t, err)
	require.Equal(t, 2, personal.TotalFound)
	assert.Equal(t, "warm", personal.Servers[0].Name)
}

func TestOfficialRecommendations(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, &model.Server{Name: "official-low", Developer: "d", IsOfficial: true, Rating: 3.0})
	seedServer(t, db, &model.Server{Name: "official-high", Developer: "d", IsOfficial: true, Rating: 4.8})
	seedServer(t, db, &model.Server{Name: "community", Developer: "d", Rating: 5.0})

	rec := NewRecommendationService(db)
	result, err := rec.Official(context.Background(), 10)
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalFound)
	assert.Equal(t, "official-high", result.Servers[0].Name)
	assert.Equal(t, "Official recommended servers", result.Reason)
}

func TestSimilarMissingReference(t *testing.T) {
	db := newTestDB(t)
	rec := NewRecommendationService(db)

	result, err := rec.Similar(context.Background(), "00000000-0000-0000-0000-000000000000", "viewer", 10)
	require.NoError(t, err)
	assert.Empty(t, result.Servers)
	assert.Zero(t, result.TotalFound)
	assert.Equal(t, "Reference server not found", result.Reason)
}

func TestSimilarByDeveloperAndRating(t *testing.T) {
	db := newTestDB(t)
	viewer := seedUser(t, db, "viewer")
	ref := seedServer(t, db, &model.Server{Name: "ref", Developer: "acme", Rating: 4.0})
	seedServer(t, db, &model.Server{Name: "same-dev", Developer: "acme", Rating: 1.0})
	seedServer(t, db, &model.Server{Name: "close-rating", Developer: "other", Rating: 4.3})
	seedServer(t, db, &model.Server{Name: "far-rating", Developer: "other", Rating: 2.0})
	faved := seedServer(t, db, &model.Server{Name: "already-faved", Developer: "acme", Rating: 4.0})
	require.NoError(t, db.Create(&model.UserFavoriteServer{UserID: viewer.ID, ServerID: faved.ID}).Error)

	rec := NewRecommendationService(db)
	result, err := rec.Similar(context.Background(), ref.ID, viewer.ID, 10)
	require.NoError(t, err)

	names := make([]string, 0, len(result.Servers))
	for _, s := range result.Servers {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"same-dev", "close-rating"}, names)
	assert.Equal(t, "Similar to ref", result.Reason)
}

func TestBasedOnFavoritesFallback(t *testing.T) {
	db := newTestDB(t)
	viewer := seedUser(t, db, "viewer")
	seedServer(t, db, &model.Server{Name: "official", Developer: "d", IsOfficial: true, Rating: 4.9})
	seedServer(t, db, &model.Server{Name: "community", Developer: "d", Rating: 4.9})

	rec := NewRecommendationService(db)
	result, err := rec.BasedOnFavorites(context.Background(), viewer.ID, 10)
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "official", result.Servers[0].Name)
	assert.Equal(t, "Popular servers (you have no favorites yet)", result.Reason)
}

func TestBasedOnFavoritesRecipe(t *testing.T) {
	db := newTestDB(t)
	viewer := seedUser(t, db, "viewer")
	liked := seedServer(t, db, &model.Server{Name: "liked", Developer: "acme", Rating: 3.0})
	require.NoError(t, db.Create(&model.UserFavoriteServer{UserID: viewer.ID, ServerID: liked.ID}).Error)

	seedServer(t, db, &model.Server{Name: "same-dev", Developer: "acme", Rating: 1.0})
	seedServer(t, db, &model.Server{Name: "highly-rated", Developer: "other", Rating: 4.5, Downloads: 500})
	seedServer(t, db, &model.Server{Name: "rated-but-unused", Developer: "other", Rating: 4.5, Downloads: 3})

	rec := NewRecommendationService(db)
	result, err := rec.BasedOnFavorites(context.Background(), viewer.ID, 10)
	require.NoError(t, err)

	names := make([]string, 0, len(result.Servers))
	for _, s := range result.Servers {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"same-dev", "highly-rated"}, names)
	assert.Equal(t, "Based on your favorite servers and developers", result.Reason)
}

func TestByNames(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, &model.Server{Name: "blender-mcp", Developer: "d", GithubStars: 10})
	seedServer(t, db, &model.Server{Name: "context7", Developer: "d", GithubStars: 99})
	seedServer(t, db, &model.Server{Name: "unrelated", Developer: "d", GithubStars: 500})

	rec := NewRecommendationService(db)
	servers, err := rec.ByNames(context.Background(), []string{"blender", "context7"}, "")
	require.NoError(t, err)

	require.Len(t, servers, 2)
	assert.Equal(t, "context7", servers[0].Name)
	assert.Equal(t, "blender-mcp", servers[1].Name)
}
