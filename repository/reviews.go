package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emzola/bookworm/data"
	"github.com/lib/pq"
)

type reviews interface {
	CreateReview(ctx context.Context, review *data.Review) error
	GetReview(ctx context.Context, reviewID int64) (*data.Review, error)
	UpdateReview(ctx context.Context, review *data.Review) error
	DeleteReview(ctx context.Context, reviewID int64) error
	ReviewTitleExistsForUser(ctx context.Context, userID int64, title string) (bool, error)
	ReviewTitleExists(ctx context.Context, title string) (bool, error)
	GetAllReviews(ctx context.Context, query data.ReviewQuery) ([]*data.Review, int, error)
	GetAllReviewsForUser(ctx context.Context, userID int64) ([]*data.Review, error)
	GetTitleSuggestions(ctx context.Context, search string, limit int) ([]string, error)
}

const reviewColumns = `reviews.id, reviews.title, reviews.caption, reviews.rating, reviews.image, reviews.tags,
		reviews.created_at, reviews.updated_at, users.id, users.username, users.profile_image`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row rowScanner, prefix ...interface{}) (*data.Review, error) {
	var (
		review data.Review
		image  sql.NullString
	)
	dest := append(prefix,
		&review.ID,
		&review.Title,
		&review.Caption,
		&review.Rating,
		&image,
		pq.Array(&review.Tags),
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.User.ID,
		&review.User.Username,
		&review.User.ProfileImage,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if image.Valid {
		review.Image = &image.String
	}
	if review.Tags == nil {
		review.Tags = []string{}
	}
	return &review, nil
}

// CreateReview creates a review record. A second review of the same title
// (ignoring case) by the same user violates reviews_user_title_idx.
func (r *repository) CreateReview(ctx context.Context, review *data.Review) error {
	query := `
		INSERT INTO reviews (user_id, title, caption, rating, image, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	args := []interface{}{review.User.ID, review.Title, review.Caption, review.Rating, review.Image, pq.Array(review.Tags)}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// GetReview retrieves a review record together with its author.
func (r *repository) GetReview(ctx context.Context, reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		WHERE reviews.id = $1`
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	review, err := scanReview(r.db.QueryRowContext(ctx, query, reviewID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview writes the mutable fields of a review. Concurrent updates by the
// owner are last-write-wins.
func (r *repository) UpdateReview(ctx context.Context, review *data.Review) error {
	query := `
		UPDATE reviews
		SET caption = $1, rating = $2, tags = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at`
	args := []interface{}{review.Caption, review.Rating, pq.Array(review.Tags), review.ID}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// DeleteReview deletes a review record.
func (r *repository) DeleteReview(ctx context.Context, reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ReviewTitleExistsForUser checks whether the user already reviewed a title, ignoring case.
func (r *repository) ReviewTitleExistsForUser(ctx context.Context, userID int64, title string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE user_id = $1 AND lower(title) = lower($2)
		)`
	var exists bool
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, title).Scan(&exists)
	return exists, err
}

// ReviewTitleExists checks whether anybody reviewed a title, ignoring case.
func (r *repository) ReviewTitleExists(ctx context.Context, title string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE lower(title) = lower($1)
		)`
	var exists bool
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, title).Scan(&exists)
	return exists, err
}

// GetAllReviews retrieves one page of reviews matching the query, newest first,
// along with the number of reviews matching the filters across all pages.
func (r *repository) GetAllReviews(ctx context.Context, q data.ReviewQuery) ([]*data.Review, int, error) {
	filter := newReviewFilter(q)
	n := filter.next()
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		WHERE %s
		ORDER BY reviews.created_at DESC, reviews.id DESC
		LIMIT $%d OFFSET $%d`,
		reviewColumns, filter.clause, n, n+1)
	args := append(append([]interface{}{}, filter.args...), q.Limit, q.Offset())
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for rows.Next() {
		review, err := scanReview(rows, &totalRecords)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	// A page past the end has no rows to carry the window count.
	if len(reviews) == 0 && q.Offset() > 0 {
		totalRecords, err = r.countReviews(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
	}
	return reviews, totalRecords, nil
}

func (r *repository) countReviews(ctx context.Context, filter reviewFilter) (int, error) {
	query := fmt.Sprintf(`
		SELECT count(*)
		FROM reviews
		WHERE %s`, filter.clause)
	var total int
	err := r.db.QueryRowContext(ctx, query, filter.args...).Scan(&total)
	return total, err
}

// GetAllReviewsForUser retrieves every review written by a user, newest first.
func (r *repository) GetAllReviewsForUser(ctx context.Context, userID int64) ([]*data.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		WHERE reviews.user_id = $1
		ORDER BY reviews.created_at DESC, reviews.id DESC`
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := []*data.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetTitleSuggestions retrieves up to limit distinct titles containing search, ignoring case.
func (r *repository) GetTitleSuggestions(ctx context.Context, search string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT title
		FROM reviews
		WHERE strpos(lower(title), lower($1)) > 0
		ORDER BY title ASC
		LIMIT $2`
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}
