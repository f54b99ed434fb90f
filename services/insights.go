package services

import (
	"time"

	"listing-insights/models"
	"listing-insights/utils"
)

// InsightOptions configures report generation.
type InsightOptions struct {
	Location         *time.Location
	CutoffPercentage float64
	TopN             int
	MaxConcurrency   int
}

// InsightService computes the four report sections over a loaded dataset.
type InsightService struct {
	logger  *utils.Logger
	opts    InsightOptions
	index   *ContactIndex
	ranking *RankingBuilder
}

func NewInsightService(logger *utils.Logger, opts InsightOptions) *InsightService {
	if opts.CutoffPercentage == 0 {
		opts.CutoffPercentage = 30
	}
	if opts.TopN == 0 {
		opts.TopN = 5
	}
	index := NewContactIndex(opts.Location)
	return &InsightService{
		logger:  logger,
		opts:    opts,
		index:   index,
		ranking: NewRankingBuilder(index),
	}
}

// Generate runs every section independently; a failing section records its
// error on the report and does not stop the others. The dataset is only read.
func (s *InsightService) Generate(ds *models.Dataset) *models.Report {
	report := &models.Report{
		CutoffPercentage: s.opts.CutoffPercentage,
		TopN:             s.opts.TopN,
	}

	listings, listingsErr := ParseListings(ds.Listings)
	if listingsErr != nil {
		s.logger.Error("[insights] Listings unusable for contact analytics: %v", listingsErr)
	}
	contacts, contactsErr := ParseContacts(ds.Contacts)
	if contactsErr != nil {
		s.logger.Error("[insights] Contacts unusable: %v", contactsErr)
	}
	contactErr := firstErr(listingsErr, contactsErr)

	pool := utils.NewWorkerPool(s.opts.MaxConcurrency)

	pool.Submit(func() {
		report.SellerAverages, report.SellerAveragesErr = SellerTypeAverages(ds.Listings)
		s.logSection("seller type averages", report.SellerAveragesErr)
	})

	pool.Submit(func() {
		report.MakeDistribution, report.MakeDistributionErr = MakeDistribution(ds.Listings)
		s.logSection("make distribution", report.MakeDistributionErr)
	})

	pool.Submit(func() {
		if contactErr != nil {
			report.MostContactedErr = contactErr
			return
		}
		freq := s.index.BuildFrequencies(listings, contacts)
		if freq.Unmatched() > 0 {
			s.logger.Warn("[insights] %d contacts reference unknown listings", freq.Unmatched())
		}
		res, err := s.ranking.MostContactedByCutoffPercentage(listings, freq, s.opts.CutoffPercentage)
		report.MostContactedAverage = res.AveragePrice
		report.MostContactedListings = res.Listings
		report.MostContactedErr = err
		s.logSection("most contacted average", err)
	})

	pool.Submit(func() {
		if contactErr != nil {
			report.TopPerMonthErr = contactErr
			return
		}
		if len(contacts) == 0 {
			report.TopPerMonthErr = ErrInsufficientData
			s.logSection("top listings per month", report.TopPerMonthErr)
			return
		}
		report.TopPerMonth, report.TopPerMonthErr = s.ranking.TopNPerMonth(listings, contacts, s.opts.TopN)
		s.logSection("top listings per month", report.TopPerMonthErr)
	})

	pool.Wait()
	return report
}

func (s *InsightService) logSection(name string, err error) {
	if err != nil {
		s.logger.Warn("[insights] Section %q failed: %v", name, err)
		return
	}
	s.logger.Debug("[insights] Section %q computed", name)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
