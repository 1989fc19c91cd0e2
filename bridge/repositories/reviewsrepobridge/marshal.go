package reviewsrepobridge

import "github.com/kingjawir/marketplace/core/repositories/reviewsrepo"

func marshalReview(r reviewsrepo.Review) Review {
	return Review{
		ID:        r.ReviewID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func marshalWithUser(r reviewsrepo.ReviewWithUser) Review {
	out := marshalReview(r.Review)
	out.User = &Reviewer{ID: r.UserID, Name: r.UserName, Avatar: r.UserAvatar}
	return out
}
