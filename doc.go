// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The thresh package binarizes grayscale images, turning them into
images of just black and white, with either a global threshold or one
of several local thresholding methods. It also contains tools to run
many binarizations over a set of images and report on the results.

Introduction

Binarization is the first step of many document processing tasks,
separating the "foreground" of an image (text, lines, fiducial marks)
from its background. In this package foreground pixels are the darker
ones, and are set to 255, while background pixels are set to 0.

The simplest method is global thresholding, which compares every pixel
with the same threshold:
  bin, hist, err := thresh.Global(img, 128)

Local methods instead work out a threshold for each pixel from the
window of pixels surrounding it, which copes much better with uneven
lighting:
  bin, hist, err := thresh.Threshold(img, 15, thresh.NewSauvola())

The local methods available are:
  bernsen                  (min + max) / 2
  niblack                  mean + k * stddev
  sauvola-pietaksinen      mean * (1 + k * (stddev / r - 1))
  phansalskar-more-sabale  mean * (1 + p * e^(-q * mean) + k * (stddev / r - 1))
  contrast                 whichever of min or max the pixel is closer to
  mean                     mean
  median                   median

Windows are square, with an odd size, and are centred on the pixel
being thresholded. Near the edges of the image windows extend past it;
those parts are treated as pixels with a value of 0. This makes pixels
near the edge more likely to be background with most methods, which is
expected. The window package calculates these statistics, and can be
used on its own.

Windows are processed in parallel, but the results are always the same
as if they were done one at a time.

Errors

The thresholding, histogram and window statistics functions return
errors wrapping one of ErrInvalidParameter, ErrEmptyImage or
ErrDimensionMismatch, which can be checked with errors.Is. Nothing is
clamped or silently ignored. Reading and writing images and storage
return the underlying I/O errors.

Batches

The threshbatch command runs every method, for a list of window sizes
and global thresholds, over a list of images, saving the results with
histogram graphs and a PDF report. Images and results can be kept in a
local directory or in Amazon S3 buckets:
  threshbatch -s local -d ~/thresh -w 3,9,15 -t 50,128,200 baboon monarch

The binarize command binarizes a single image:
  binarize -m niblack -w 15 -k -0.2 in.pgm out.pgm

And histgraph draws the histogram of an image:
  histgraph in.pgm graph.png
*/
package thresh
